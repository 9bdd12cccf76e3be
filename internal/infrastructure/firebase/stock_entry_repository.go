package firebase

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo entradas de stock en la colección stockEntries.
// Los saldos se agregan en memoria: Firestore no suma strings.
type StockEntryRepo struct {
	col       *firestore.CollectionRef
	materials *firestore.CollectionRef
}

// NewStockEntryRepository construye el adaptador.
func NewStockEntryRepository(client *firestore.Client) *StockEntryRepo {
	return &StockEntryRepo{
		col:       client.Collection(stockEntryCollection),
		materials: client.Collection(materialsCollection),
	}
}

func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	if _, err := r.col.Doc(e.ID).Create(ctx, newStockEntryDoc(e)); err != nil {
		return writeErr("create stock entry", err)
	}
	return nil
}

func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return decodeStockEntry(snap)
}

// List más recientes primero. Requiere índice compuesto cuando se combinan filtros.
func (r *StockEntryRepo) List(ctx context.Context, f repository.StockEntryFilter, limit, offset int) ([]*entity.StockEntry, error) {
	q := r.col.Query
	if f.MaterialID != "" {
		q = q.Where("materialId", "==", f.MaterialID)
	}
	if f.Status != "" {
		q = q.Where("status", "==", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("entryDate", ">=", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("entryDate", "<=", f.To)
	}
	q = q.OrderBy("entryDate", firestore.Desc).OrderBy("createdAt", firestore.Desc).Offset(offset).Limit(limit)
	return r.entries(ctx, q)
}

func (r *StockEntryRepo) SetStatus(ctx context.Context, id, status string) error {
	if _, err := r.col.Doc(id).Update(ctx, []firestore.Update{{Path: "status", Value: status}}); err != nil {
		return writeErr("update stock entry status", err)
	}
	return nil
}

// Balances saldo por material activo, ordenado por código.
func (r *StockEntryRepo) Balances(ctx context.Context) ([]*entity.StockBalance, error) {
	it := r.materials.Where("status", "==", entity.StatusActive).Documents(ctx)
	defer it.Stop()
	byID := map[string]*entity.StockBalance{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stock balances: %w", err)
		}
		m, err := decodeMaterial(snap)
		if err != nil {
			return nil, err
		}
		byID[m.ID] = newBalance(m)
	}

	entries, err := r.entries(ctx, r.col.Where("status", "==", entity.StatusActive))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if b, ok := byID[e.MaterialID]; ok {
			accumulate(b, e)
		}
	}

	out := make([]*entity.StockBalance, 0, len(byID))
	for _, b := range byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialCode < out[j].MaterialCode })
	return out, nil
}

// BalanceOf saldo de un material. Material inexistente devuelve saldo cero.
func (r *StockEntryRepo) BalanceOf(ctx context.Context, materialID string) (*entity.StockBalance, error) {
	b := &entity.StockBalance{MaterialID: materialID}
	snap, err := r.materials.Doc(materialID).Get(ctx)
	switch {
	case err == nil:
		m, err := decodeMaterial(snap)
		if err != nil {
			return nil, err
		}
		b = newBalance(m)
	case !isNotFound(err):
		return nil, fmt.Errorf("stock balance: %w", err)
	}

	entries, err := r.entries(ctx, r.col.
		Where("materialId", "==", materialID).
		Where("status", "==", entity.StatusActive))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		accumulate(b, e)
	}
	return b, nil
}

func (r *StockEntryRepo) entries(ctx context.Context, q firestore.Query) ([]*entity.StockEntry, error) {
	it := q.Documents(ctx)
	defer it.Stop()
	var out []*entity.StockEntry
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list stock entries: %w", err)
		}
		e, err := decodeStockEntry(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}

func newBalance(m *entity.Material) *entity.StockBalance {
	return &entity.StockBalance{
		MaterialID:   m.ID,
		MaterialCode: m.Code,
		MaterialName: m.Name,
		Unit:         m.Unit,
		ReorderLevel: m.ReorderLevel,
	}
}

// accumulate suma la entrada al saldo; los campos cero de decimal.Decimal valen 0.
func accumulate(b *entity.StockBalance, e *entity.StockEntry) {
	if e.Type == entity.StockEntryOUT {
		b.TotalOut = b.TotalOut.Add(e.Quantity)
	} else {
		b.TotalIn = b.TotalIn.Add(e.Quantity)
	}
	b.Balance = b.TotalIn.Sub(b.TotalOut)
}

func decodeStockEntry(snap *firestore.DocumentSnapshot) (*entity.StockEntry, error) {
	var d stockEntryDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode stock entry %s: %w", snap.Ref.ID, err)
	}
	return d.toEntity(snap.Ref.ID)
}
