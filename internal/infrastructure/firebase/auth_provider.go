package firebase

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

// authClient subconjunto de *auth.Client que usa el proveedor.
type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
}

var _ repository.IdentityProvider = (*AuthProvider)(nil)

// AuthProvider implementa IdentityProvider sobre Firebase Auth.
// La contraseña se registra en Firebase pero el login la verifica contra el hash del perfil.
type AuthProvider struct {
	client       authClient
	isEmailTaken func(error) bool
	isNotFound   func(error) bool
}

// NewAuthProvider construye el proveedor con el cliente de Firebase Auth.
func NewAuthProvider(client authClient) *AuthProvider {
	return &AuthProvider{
		client:       client,
		isEmailTaken: auth.IsEmailAlreadyExists,
		isNotFound:   auth.IsUserNotFound,
	}
}

// CreateUser crea la cuenta. Email ya registrado es domain.ErrConflict.
func (p *AuthProvider) CreateUser(ctx context.Context, in repository.IdentityToCreate) (*entity.Identity, error) {
	params := (&auth.UserToCreate{}).
		Email(in.Email).
		Password(in.Password).
		DisplayName(in.DisplayName).
		Disabled(in.Disabled)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if p.isEmailTaken(err) {
			return nil, fmt.Errorf("%w: el email ya tiene una cuenta", domain.ErrConflict)
		}
		return nil, fmt.Errorf("firebase create user: %w", err)
	}
	return toIdentity(rec), nil
}

// GetUserByEmail devuelve (nil, nil) si la cuenta no existe.
func (p *AuthProvider) GetUserByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	rec, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if p.isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("firebase get user: %w", err)
	}
	return toIdentity(rec), nil
}

// SetDisabled habilita o deshabilita la cuenta.
func (p *AuthProvider) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	if _, err := p.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(disabled)); err != nil {
		if p.isNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("firebase update user: %w", err)
	}
	return nil
}

func toIdentity(rec *auth.UserRecord) *entity.Identity {
	id := &entity.Identity{Disabled: rec.Disabled}
	if rec.UserInfo != nil {
		id.UID = rec.UID
		id.Email = rec.Email
		id.DisplayName = rec.DisplayName
	}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		id.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC()
	}
	return id
}
