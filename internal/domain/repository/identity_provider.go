package repository

import (
	"context"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// IdentityToCreate datos para crear una cuenta en el proveedor de identidad.
type IdentityToCreate struct {
	Email       string
	Password    string
	DisplayName string
	Disabled    bool // las cuentas de registro nacen deshabilitadas hasta la aprobación
}

// IdentityProvider es el puerto hacia el proveedor de identidad externo.
// CreateUser devuelve domain.ErrConflict si el email ya existe;
// GetUserByEmail devuelve (nil, nil) si no existe.
type IdentityProvider interface {
	CreateUser(ctx context.Context, in IdentityToCreate) (*entity.Identity, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.Identity, error)
	SetDisabled(ctx context.Context, uid string, disabled bool) error
}
