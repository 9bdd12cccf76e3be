// Package credentials deriva el identificador de login y la contraseña inicial
// de un usuario a partir de sus datos personales.
package credentials

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinPasswordLength mínimo aceptado por el proveedor de identidad.
const MinPasswordLength = 6

const (
	dobLayout         = "2006-01-02"
	maxFirstNameChars = 8
	passwordLength    = 10
)

// Sin 0/O, 1/l/I para que la contraseña se pueda dictar por teléfono.
const (
	upperAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerAlphabet = "abcdefghijkmnpqrstuvwxyz"
	digitAlphabet = "23456789"
)

var (
	ErrMissingField = errors.New("credentials: campo requerido")
	ErrInvalidDOB   = errors.New("credentials: fecha de nacimiento inválida (YYYY-MM-DD)")
)

// Input datos personales de los que se derivan las credenciales.
type Input struct {
	FirstName  string
	LastName   string
	FatherName string
	DOB        string // YYYY-MM-DD
}

// Credentials resultado de Generate.
type Credentials struct {
	UserID   string
	Password string
}

// Generate devuelve el identificador determinista y una contraseña inicial aleatoria.
func Generate(in Input) (Credentials, error) {
	userID, err := DeriveIdentifier(in)
	if err != nil {
		return Credentials{}, err
	}
	pwd, err := randomPassword(passwordLength)
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials: generar contraseña: %w", err)
	}
	return Credentials{UserID: userID, Password: pwd}, nil
}

// DeriveIdentifier calcula solo el identificador de login:
// nombre normalizado (máx. 8) + inicial del padre + inicial del apellido + DDMM del nacimiento.
// Anu / Raj / Kumar / 1995-01-01 → "anukr0101".
func DeriveIdentifier(in Input) (string, error) {
	fields := []struct{ name, value string }{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"fatherName", in.FatherName},
		{"dob", in.DOB},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	dob, err := time.Parse(dobLayout, strings.TrimSpace(in.DOB))
	if err != nil {
		return "", ErrInvalidDOB
	}

	first := Normalize(in.FirstName)
	father := Normalize(in.FatherName)
	last := Normalize(in.LastName)
	if first == "" || father == "" || last == "" {
		return "", fmt.Errorf("%w: los nombres deben contener letras o dígitos", ErrMissingField)
	}
	if len(first) > maxFirstNameChars {
		first = first[:maxFirstNameChars]
	}
	return first + father[:1] + last[:1] + dob.Format("0201"), nil
}

// Normalize quita diacríticos, pasa a minúsculas y conserva solo [a-z0-9].
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePassword aplica la política mínima de longitud.
func ValidatePassword(pwd string) bool {
	return len(pwd) >= MinPasswordLength
}

func randomPassword(n int) (string, error) {
	all := upperAlphabet + lowerAlphabet + digitAlphabet
	out := make([]byte, n)
	// Garantiza al menos una mayúscula, una minúscula y un dígito.
	for i, set := range []string{upperAlphabet, lowerAlphabet, digitAlphabet} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for i := 3; i < n; i++ {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	// Fisher-Yates para que las clases obligatorias no queden siempre al inicio.
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		k := int(j.Int64())
		out[i], out[k] = out[k], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[idx.Int64()], nil
}
