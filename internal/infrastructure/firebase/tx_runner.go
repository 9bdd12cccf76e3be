package firebase

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/magizh-industries/magizh-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn con los repositorios de Firestore de forma secuencial.
// No es atómico: si fn falla a mitad, las escrituras previas quedan aplicadas.
// Los casos de uso escriben al final, después de todas las validaciones.
type TxRunner struct {
	repos ports.TxRepos
}

// NewTxRunner construye el runner sobre el cliente de Firestore.
func NewTxRunner(client *firestore.Client) *TxRunner {
	return &TxRunner{repos: ports.TxRepos{
		Materials: NewMaterialRepository(client),
		Stock:     NewStockEntryRepository(client),
		Archive:   NewArchiveRepository(client),
	}}
}

func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	return fn(ctx, r.repos)
}
