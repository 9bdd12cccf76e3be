package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUID    = "uid-0001"
	testUserID = "anukr0101"
	testEmail  = "anu@x.com"
	testIssuer = "magizh-api-test"
)

func TestGenerateAndParse_RoundTrip(t *testing.T) {
	tok, err := Generate(testSecret, testUID, testUserID, testEmail, "employee", testIssuer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := Parse(testSecret, testIssuer, tok)
	require.NoError(t, err)

	assert.Equal(t, testUID, claims.UID())
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testEmail, claims.Email)
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestParse_TokenExpirado(t *testing.T) {
	past := time.Now().Add(-8 * 24 * time.Hour)
	tok, err := generateAt(past, testSecret, testUID, testUserID, testEmail, "admin", testIssuer, 7*24*time.Hour)
	require.NoError(t, err)

	_, err = Parse(testSecret, testIssuer, tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(testSecret, testUID, testUserID, testEmail, "admin", testIssuer, time.Hour)
	require.NoError(t, err)

	_, err = Parse("otro-secret-completamente-distinto", testIssuer, tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_FirmaAlterada(t *testing.T) {
	tok, err := Generate(testSecret, testUID, testUserID, testEmail, "employee", testIssuer, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = Parse(testSecret, testIssuer, tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_AlgNoneRechazado(t *testing.T) {
	// header {"alg":"none","typ":"JWT"} + payload con rol admin, sin firma
	tok := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ4Iiwicm9sZSI6ImFkbWluIn0."
	_, err := Parse(testSecret, testIssuer, tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_EmisorDistintoRechazado(t *testing.T) {
	tok, err := Generate(testSecret, testUID, testUserID, testEmail, "admin", "otro-emisor", time.Hour)
	require.NoError(t, err)

	_, err = Parse(testSecret, testIssuer, tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_SinExpiracionRechazado(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   testIssuer,
			Subject:  testUID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		UserID: testUserID,
		Role:   "admin",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = Parse(testSecret, testIssuer, tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", testUID, testUserID, testEmail, "admin", testIssuer, time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestDecode_NoVerificaFirma(t *testing.T) {
	tok, err := Generate(testSecret, testUID, testUserID, testEmail, "admin", testIssuer, time.Hour)
	require.NoError(t, err)

	claims, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)

	_, err = Decode("no-es-un-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
