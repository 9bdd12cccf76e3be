package repository

import (
	"context"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para materiales.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	// List filtra por status si no está vacío.
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Material, error)
	Update(ctx context.Context, m *entity.Material) error
	SetStatus(ctx context.Context, id, status string) error
}
