package auth

import (
	"time"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenService emite y verifica tokens de sesión. Es stateless: no hay revocación.
type TokenService struct {
	cfg JWTConfig
}

// NewTokenService construye el servicio de tokens.
func NewTokenService(cfg JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// TTL duración de validez de los tokens emitidos.
func (s *TokenService) TTL() time.Duration {
	return time.Duration(s.cfg.ExpMinutes) * time.Minute
}

// Issue firma un token con uid, identificador de login, email y rol.
func (s *TokenService) Issue(uid, userID, email, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.TTL())
	tok, err := jwt.Generate(s.cfg.Secret, uid, userID, email, role, s.cfg.Issuer, s.TTL())
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, expiresAt, nil
}

// Verify valida firma, emisor y expiración. Cualquier fallo es domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(s.cfg.Secret, s.cfg.Issuer, token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Decode lee los claims sin verificar. Solo diagnóstico.
func (s *TokenService) Decode(token string) (*jwt.Claims, error) {
	return jwt.Decode(token)
}
