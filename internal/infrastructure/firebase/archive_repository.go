package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

// ArchiveRepo registros de archivo en la colección archive. El snapshot se guarda como JSON en string.
type ArchiveRepo struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

// NewArchiveRepository construye el adaptador.
func NewArchiveRepository(client *firestore.Client) *ArchiveRepo {
	return &ArchiveRepo{client: client, col: client.Collection(archiveCollection)}
}

func (r *ArchiveRepo) Create(ctx context.Context, a *entity.ArchiveRecord) error {
	if _, err := r.col.Doc(a.ID).Create(ctx, newArchiveDoc(a)); err != nil {
		return writeErr("create archive record", err)
	}
	return nil
}

func (r *ArchiveRepo) GetByID(ctx context.Context, id string) (*entity.ArchiveRecord, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get archive record: %w", err)
	}
	return decodeArchive(snap)
}

// List más recientes primero. kind vacío = todos.
func (r *ArchiveRepo) List(ctx context.Context, kind string, limit, offset int) ([]*entity.ArchiveRecord, error) {
	q := r.col.Query
	if kind != "" {
		q = q.Where("kind", "==", kind)
	}
	it := q.OrderBy("archivedAt", firestore.Desc).Offset(offset).Limit(limit).Documents(ctx)
	defer it.Stop()
	var out []*entity.ArchiveRecord
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list archive records: %w", err)
		}
		a, err := decodeArchive(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
}

// MarkRestored sella restoredAt/restoredBy en una transacción de Firestore.
// Un registro ya restaurado es domain.ErrConflict.
func (r *ArchiveRepo) MarkRestored(ctx context.Context, a *entity.ArchiveRecord) error {
	ref := r.col.Doc(a.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		cur, err := decodeArchive(snap)
		if err != nil {
			return err
		}
		if cur.IsRestored() {
			return fmt.Errorf("%w: el registro ya fue restaurado", domain.ErrConflict)
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "restoredAt", Value: a.RestoredAt},
			{Path: "restoredBy", Value: a.RestoredBy},
		})
	})
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func decodeArchive(snap *firestore.DocumentSnapshot) (*entity.ArchiveRecord, error) {
	var d archiveDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode archive record %s: %w", snap.Ref.ID, err)
	}
	return d.toEntity(snap.Ref.ID), nil
}
