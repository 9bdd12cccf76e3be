package firebase

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo materiales en la colección materials.
type MaterialRepo struct {
	col *firestore.CollectionRef
}

// NewMaterialRepository construye el adaptador.
func NewMaterialRepository(client *firestore.Client) *MaterialRepo {
	return &MaterialRepo{col: client.Collection(materialsCollection)}
}

// Create falla con domain.ErrConflict si el ID ya existe. El código único lo valida el caso de uso.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	if _, err := r.col.Doc(m.ID).Create(ctx, newMaterialDoc(m)); err != nil {
		return writeErr("create material", err)
	}
	return nil
}

func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return decodeMaterial(snap)
}

func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	it := r.col.Where("code", "==", code).Limit(1).Documents(ctx)
	defer it.Stop()
	snap, err := it.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get material by code: %w", err)
	}
	return decodeMaterial(snap)
}

// List ordenado por código. status vacío = todos.
func (r *MaterialRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Material, error) {
	q := r.col.Query
	if status != "" {
		q = q.Where("status", "==", status)
	}
	return r.list(ctx, q.OrderBy("code", firestore.Asc).Offset(offset).Limit(limit))
}

// Update actualiza los campos editables.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	_, err := r.col.Doc(m.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: m.Name},
		{Path: "description", Value: m.Description},
		{Path: "unit", Value: m.Unit},
		{Path: "category", Value: m.Category},
		{Path: "hsnCode", Value: m.HSNCode},
		{Path: "reorderLevel", Value: m.ReorderLevel.String()},
		{Path: "updatedAt", Value: m.UpdatedAt},
	})
	if err != nil {
		return writeErr("update material", err)
	}
	return nil
}

func (r *MaterialRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.col.Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return writeErr("update material status", err)
	}
	return nil
}

func (r *MaterialRepo) list(ctx context.Context, q firestore.Query) ([]*entity.Material, error) {
	it := q.Documents(ctx)
	defer it.Stop()
	var out []*entity.Material
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list materials: %w", err)
		}
		m, err := decodeMaterial(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
}

func decodeMaterial(snap *firestore.DocumentSnapshot) (*entity.Material, error) {
	var d materialDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode material %s: %w", snap.Ref.ID, err)
	}
	return d.toEntity(snap.Ref.ID)
}
