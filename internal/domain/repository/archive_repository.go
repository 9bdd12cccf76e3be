package repository

import (
	"context"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// ArchiveRepository define el puerto de persistencia para registros archivados.
type ArchiveRepository interface {
	Create(ctx context.Context, a *entity.ArchiveRecord) error
	GetByID(ctx context.Context, id string) (*entity.ArchiveRecord, error)
	// List filtra por kind si no está vacío.
	List(ctx context.Context, kind string, limit, offset int) ([]*entity.ArchiveRecord, error)
	MarkRestored(ctx context.Context, a *entity.ArchiveRecord) error
}
