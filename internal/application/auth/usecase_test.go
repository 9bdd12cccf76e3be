package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

const testSecret = "test-secret-key-for-unit-tests"

type fixture struct {
	users      *memUsers
	identities *memIdentities
	tokens     *TokenService
	auth       *AuthUseCase
	approval   *ApprovalUseCase
}

func newFixture(returnPassword bool) *fixture {
	f := &fixture{
		users:      newMemUsers(),
		identities: newMemIdentities(),
		tokens:     NewTokenService(JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "magizh-test"}),
	}
	f.auth = NewAuthUseCase(f.users, f.identities, f.tokens, Options{
		ReturnGeneratedPassword: returnPassword,
		BcryptCost:              bcrypt.MinCost,
	}, nil)
	f.approval = NewApprovalUseCase(f.users, f.identities, nil)
	return f
}

func anu() dto.SignupRequest {
	return dto.SignupRequest{FirstName: "Anu", LastName: "Raj", FatherName: "Kumar", DOB: "1995-01-01", Email: "Anu@X.com "}
}

func TestSignup_CreaUsuarioPendiente(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	out, err := f.auth.Signup(ctx, anu())
	require.NoError(t, err)
	assert.Equal(t, "anukr0101", out.UserID)
	assert.Equal(t, "anu@x.com", out.Email)
	assert.False(t, out.IsApproved)
	assert.Len(t, out.Password, 10)

	stored, err := f.users.GetByUID(ctx, out.UID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.RoleEmployee, stored.Role)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsApproved)
	assert.NotEqual(t, out.Password, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(out.Password)))
	assert.True(t, f.identities.disabled(out.UID), "la identidad queda deshabilitada hasta la aprobación")
}

func TestSignup_SinDevolverPassword(t *testing.T) {
	f := newFixture(false)
	out, err := f.auth.Signup(context.Background(), anu())
	require.NoError(t, err)
	assert.Empty(t, out.Password)
}

func TestSignup_IdentificadorDuplicado(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	first, err := f.auth.Signup(ctx, anu())
	require.NoError(t, err)

	again := anu()
	again.Email = "otra@x.com"
	_, err = f.auth.Signup(ctx, again)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// El perfil original no se toca.
	stored, _ := f.users.GetByUID(ctx, first.UID)
	assert.Equal(t, "anu@x.com", stored.Email)
}

func TestSignup_EmailDuplicado(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	_, err := f.auth.Signup(ctx, anu())
	require.NoError(t, err)

	other := dto.SignupRequest{FirstName: "Bala", LastName: "Raj", FatherName: "Kumar", DOB: "1990-05-06", Email: "anu@x.com"}
	_, err = f.auth.Signup(ctx, other)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestSignup_EntradaInvalida(t *testing.T) {
	f := newFixture(true)
	in := anu()
	in.DOB = "01/01/1995"
	_, err := f.auth.Signup(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *dto.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "dob")
}

func TestSignup_ErrorDeAlmacenamiento(t *testing.T) {
	f := newFixture(true)
	boom := errors.New("store caído")
	f.users.failGet = boom
	_, err := f.auth.Signup(context.Background(), anu())
	assert.ErrorIs(t, err, boom)
}

func TestLogin_PendienteEsRechazadoConMensajeGenerico(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	out, err := f.auth.Signup(ctx, anu())
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Identifier: out.UserID, Password: out.Password})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, errUnknown := f.auth.Login(ctx, dto.LoginRequest{Identifier: "nadie0101", Password: out.Password})
	_, errBadPwd := f.auth.Login(ctx, dto.LoginRequest{Identifier: out.UserID, Password: "incorrecta"})
	assert.Equal(t, err, errUnknown)
	assert.Equal(t, err, errBadPwd)
}

func TestLogin_FlujoCompletoAnu(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	signup, err := f.auth.Signup(ctx, anu())
	require.NoError(t, err)

	_, err = f.approval.Approve(ctx, "admin-uid", signup.UID)
	require.NoError(t, err)

	out, err := f.auth.Login(ctx, dto.LoginRequest{Identifier: "ANUKR0101", Password: signup.Password})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "anukr0101", out.User.UserID)
	assert.True(t, out.User.IsApproved)

	claims, err := f.tokens.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.UID, claims.UID())
	assert.Equal(t, "anukr0101", claims.UserID)
	assert.Equal(t, "anu@x.com", claims.Email)
	assert.Equal(t, entity.RoleEmployee, claims.Role)
	assert.WithinDuration(t, out.ExpiresAt, claims.ExpiresAt.Time, 2*time.Second)

	// Email como alias del identificador.
	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "anu@x.com", Password: signup.Password})
	assert.NoError(t, err)
}

func TestLogin_RechazadoNoPuedeEntrar(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	signup, err := f.auth.Signup(ctx, anu())
	require.NoError(t, err)
	_, err = f.approval.Approve(ctx, "admin-uid", signup.UID)
	require.NoError(t, err)
	_, err = f.approval.Reject(ctx, "admin-uid", signup.UID)
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Identifier: signup.UserID, Password: signup.Password})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	signup, err := f.auth.Signup(ctx, anu())
	require.NoError(t, err)

	me, err := f.auth.Me(ctx, signup.UID)
	require.NoError(t, err)
	assert.Equal(t, "anukr0101", me.UserID)

	_, err = f.auth.Me(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTokenService_Verify(t *testing.T) {
	svc := NewTokenService(JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "magizh-test"})
	tok, exp, err := svc.Issue("uid-1", "anukr0101", "anu@x.com", entity.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 2*time.Second)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	other := NewTokenService(JWTConfig{Secret: "otro-secret", ExpMinutes: 5})
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.True(t, IsAuthError(err))

	otroEmisor := NewTokenService(JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "otro-emisor"})
	_, err = otroEmisor.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestSignup_FalloDelPerfilDeshabilitaIdentidadNueva(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	f.users.failCreate = errors.New("db caída")

	_, err := f.auth.Signup(ctx, anu())
	require.Error(t, err)

	id, err := f.identities.GetUserByEmail(ctx, "anu@x.com")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.True(t, f.identities.disabled(id.UID))
}
