package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

type memStore struct {
	mu        sync.Mutex
	materials map[string]*entity.Material
	entries   map[string]*entity.StockEntry
	archive   map[string]*entity.ArchiveRecord
}

func newMemStore() *memStore {
	return &memStore{
		materials: map[string]*entity.Material{},
		entries:   map[string]*entity.StockEntry{},
		archive:   map[string]*entity.ArchiveRecord{},
	}
}

func (s *memStore) repos() ports.TxRepos {
	return ports.TxRepos{Materials: memMaterials{s}, Stock: memStock{s}, Archive: memArchive{s}}
}

// WithinTx sin atomicidad: suficiente para los casos de uso.
func (s *memStore) WithinTx(ctx context.Context, fn func(context.Context, ports.TxRepos) error) error {
	return fn(ctx, s.repos())
}

type memMaterials struct{ s *memStore }

func (r memMaterials) Create(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.materials {
		if x.Code == m.Code {
			return domain.ErrConflict
		}
	}
	cp := *m
	r.s.materials[m.ID] = &cp
	return nil
}

func (r memMaterials) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r memMaterials) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.materials {
		if m.Code == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memMaterials) List(_ context.Context, status string, limit, offset int) ([]*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Material
	for _, m := range r.s.materials {
		if status == "" || m.Status == status {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r memMaterials) Update(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.materials[m.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *m
	r.s.materials[m.ID] = &cp
	return nil
}

func (r memMaterials) SetStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Status = status
	return nil
}

type memStock struct{ s *memStore }

func (r memStock) Create(_ context.Context, e *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.entries[e.ID] = &cp
	return nil
}

func (r memStock) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r memStock) List(_ context.Context, f repository.StockEntryFilter, limit, offset int) ([]*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockEntry
	for _, e := range r.s.entries {
		if f.MaterialID != "" && e.MaterialID != f.MaterialID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && e.EntryDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.EntryDate.After(f.To) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r memStock) SetStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (r memStock) Balances(ctx context.Context) ([]*entity.StockBalance, error) {
	r.s.mu.Lock()
	ids := make([]string, 0, len(r.s.materials))
	for id, m := range r.s.materials {
		if m.IsActive() {
			ids = append(ids, id)
		}
	}
	r.s.mu.Unlock()
	sort.Strings(ids)
	out := make([]*entity.StockBalance, 0, len(ids))
	for _, id := range ids {
		b, _ := r.BalanceOf(ctx, id)
		out = append(out, b)
	}
	return out, nil
}

func (r memStock) BalanceOf(_ context.Context, materialID string) (*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b := &entity.StockBalance{MaterialID: materialID, TotalIn: decimal.Zero, TotalOut: decimal.Zero}
	if m, ok := r.s.materials[materialID]; ok {
		b.MaterialCode, b.MaterialName, b.Unit, b.ReorderLevel = m.Code, m.Name, m.Unit, m.ReorderLevel
	}
	for _, e := range r.s.entries {
		if e.MaterialID != materialID || e.Status != entity.StatusActive {
			continue
		}
		if e.Type == entity.StockEntryIN {
			b.TotalIn = b.TotalIn.Add(e.Quantity)
		} else {
			b.TotalOut = b.TotalOut.Add(e.Quantity)
		}
	}
	b.Balance = b.TotalIn.Sub(b.TotalOut)
	return b, nil
}

type memArchive struct{ s *memStore }

func (r memArchive) Create(_ context.Context, a *entity.ArchiveRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.archive[a.ID] = &cp
	return nil
}

func (r memArchive) GetByID(_ context.Context, id string) (*entity.ArchiveRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.archive[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r memArchive) List(_ context.Context, kind string, limit, offset int) ([]*entity.ArchiveRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ArchiveRecord
	for _, a := range r.s.archive {
		if kind == "" || a.Kind == kind {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArchivedAt.After(out[j].ArchivedAt) })
	return page(out, limit, offset), nil
}

func (r memArchive) MarkRestored(_ context.Context, a *entity.ArchiveRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.archive[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.s.archive[a.ID] = &cp
	return nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit < len(in) {
		in = in[:limit]
	}
	return in
}

// Generadores de reporte que registran lo recibido.
type fakeReport struct{ got ports.StockReport }

func (f *fakeReport) Generate(r ports.StockReport) ([]byte, error) {
	f.got = r
	return []byte("%PDF-fake"), nil
}

type fakeTally struct {
	company string
	entries []*entity.StockEntry
}

func (f *fakeTally) Export(company string, entries []*entity.StockEntry) ([]byte, error) {
	f.company, f.entries = company, entries
	return []byte("<ENVELOPE/>"), nil
}
