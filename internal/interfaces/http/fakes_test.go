package http_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

// memUsers UserRepository en memoria, en orden de inserción.
type memUsers struct {
	mu    sync.Mutex
	order []string
	byUID map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{byUID: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byUID {
		if x.UID == u.UID || x.UserID == u.UserID || x.Email == u.Email {
			return domain.ErrConflict
		}
	}
	cp := *u
	m.byUID[u.UID] = &cp
	m.order = append(m.order, u.UID)
	return nil
}

func (m *memUsers) find(pred func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uid := range m.order {
		if u := m.byUID[uid]; pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByUID(_ context.Context, uid string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.UID == uid })
}

func (m *memUsers) GetByUserID(_ context.Context, userID string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.UserID == userID })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == email })
}

func (m *memUsers) filter(pred func(*entity.User) bool, limit, offset int) []*entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, uid := range m.order {
		if u := m.byUID[uid]; pred(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

func pending(u *entity.User) bool { return u.IsActive && !u.IsApproved }

func (m *memUsers) ListPending(_ context.Context, limit, offset int) ([]*entity.User, error) {
	return m.filter(pending, limit, offset), nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	return m.filter(func(*entity.User) bool { return true }, limit, offset), nil
}

func (m *memUsers) CountPending(context.Context) (int, error) {
	return len(m.filter(pending, 1<<30, 0)), nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUID[u.UID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	m.byUID[u.UID] = &cp
	return nil
}

// memIdentities IdentityProvider en memoria.
type memIdentities struct {
	mu    sync.Mutex
	seq   int
	byUID map[string]*entity.Identity
}

var _ repository.IdentityProvider = (*memIdentities)(nil)

func newMemIdentities() *memIdentities { return &memIdentities{byUID: map[string]*entity.Identity{}} }

func (m *memIdentities) CreateUser(_ context.Context, in repository.IdentityToCreate) (*entity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byUID {
		if id.Email == in.Email {
			return nil, domain.ErrConflict
		}
	}
	m.seq++
	id := &entity.Identity{
		UID: fmt.Sprintf("uid-%d", m.seq), Email: in.Email, DisplayName: in.DisplayName,
		Disabled: in.Disabled, CreatedAt: time.Now().UTC(),
	}
	m.byUID[id.UID] = id
	cp := *id
	return &cp, nil
}

func (m *memIdentities) GetUserByEmail(_ context.Context, email string) (*entity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byUID {
		if id.Email == email {
			cp := *id
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memIdentities) SetDisabled(_ context.Context, uid string, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byUID[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	id.Disabled = disabled
	return nil
}

// emptyMaterials MaterialRepository sin datos: alcanza para probar el ruteo y el mapeo de errores.
type emptyMaterials struct{}

func (emptyMaterials) Create(context.Context, *entity.Material) error { return nil }
func (emptyMaterials) GetByID(context.Context, string) (*entity.Material, error) {
	return nil, nil
}
func (emptyMaterials) GetByCode(context.Context, string) (*entity.Material, error) {
	return nil, nil
}
func (emptyMaterials) List(context.Context, string, int, int) ([]*entity.Material, error) {
	return nil, nil
}
func (emptyMaterials) Update(context.Context, *entity.Material) error   { return domain.ErrNotFound }
func (emptyMaterials) SetStatus(context.Context, string, string) error { return domain.ErrNotFound }
