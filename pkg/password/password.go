package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost costo bcrypt para contraseñas de usuarios.
const DefaultCost = 12

// Hash hashea una contraseña con bcrypt.
func Hash(plain string) (string, error) {
	return HashWithCost(plain, DefaultCost)
}

// HashWithCost permite bajar el costo en tests.
func HashWithCost(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara una contraseña con su hash.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
