package repository

import (
	"context"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para los perfiles (DIP).
// Los Get* devuelven (nil, nil) cuando el usuario no existe: es un resultado normal, no un fallo.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByUID(ctx context.Context, uid string) (*entity.User, error)
	GetByUserID(ctx context.Context, userID string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListPending(ctx context.Context, limit, offset int) ([]*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountPending(ctx context.Context) (int, error)
	Update(ctx context.Context, user *entity.User) error
}
