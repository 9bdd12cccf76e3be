package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

const archiveColumns = `id, kind, record_id, snapshot, reason, archived_by, archived_at, restored_at, restored_by`

// ArchiveRepo implementación de ArchiveRepository sobre PostgreSQL (usable con pool o tx).
type ArchiveRepo struct {
	q Querier
}

// NewArchiveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArchiveRepository(q Querier) *ArchiveRepo {
	return &ArchiveRepo{q: q}
}

// Create inserta un registro de archivo. El snapshot se guarda como JSONB.
func (r *ArchiveRepo) Create(ctx context.Context, a *entity.ArchiveRecord) error {
	query := `INSERT INTO archive_records (` + archiveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Kind, a.RecordID, string(a.Snapshot), a.Reason, a.ArchivedBy, a.ArchivedAt, a.RestoredAt, a.RestoredBy,
	)
	if err != nil {
		return writeErr("insert archive record", err)
	}
	return nil
}

// GetByID obtiene un registro; (nil, nil) si no existe.
func (r *ArchiveRepo) GetByID(ctx context.Context, id string) (*entity.ArchiveRecord, error) {
	a, err := scanArchive(r.q.QueryRow(ctx, `SELECT `+archiveColumns+` FROM archive_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get archive record: %w", err)
	}
	return a, nil
}

// List lista registros, más recientes primero. kind vacío = todos.
func (r *ArchiveRepo) List(ctx context.Context, kind string, limit, offset int) ([]*entity.ArchiveRecord, error) {
	query := `SELECT ` + archiveColumns + ` FROM archive_records
		WHERE ($1::text = '' OR kind = $1)
		ORDER BY archived_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list archive records: %w", err)
	}
	defer rows.Close()
	var out []*entity.ArchiveRecord
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive record: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkRestored sella restored_at/restored_by. Solo aplica a registros no restaurados.
func (r *ArchiveRepo) MarkRestored(ctx context.Context, a *entity.ArchiveRecord) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE archive_records SET restored_at = $2, restored_by = $3 WHERE id = $1 AND restored_at IS NULL`,
		a.ID, a.RestoredAt, a.RestoredBy,
	)
	if err != nil {
		return writeErr("restore archive record", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: el registro ya fue restaurado", domain.ErrConflict)
	}
	return nil
}

func scanArchive(row pgx.Row) (*entity.ArchiveRecord, error) {
	var (
		a        entity.ArchiveRecord
		snapshot []byte
	)
	err := row.Scan(&a.ID, &a.Kind, &a.RecordID, &snapshot, &a.Reason, &a.ArchivedBy, &a.ArchivedAt, &a.RestoredAt, &a.RestoredBy)
	if err != nil {
		return nil, err
	}
	a.Snapshot = snapshot
	return &a, nil
}
