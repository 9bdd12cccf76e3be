package ports

import (
	"context"

	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

// TxRepos repositorios ligados a una misma unidad de trabajo.
type TxRepos struct {
	Materials repository.MaterialRepository
	Stock     repository.StockEntryRepository
	Archive   repository.ArchiveRepository
}

// TxRunner ejecuta fn dentro de una unidad de trabajo. Si fn devuelve error se descarta todo.
// La implementación de Postgres es transaccional; la de Firestore ejecuta en secuencia
// sin atomicidad y así lo documenta.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
