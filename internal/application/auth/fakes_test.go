package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

// memUsers UserRepository en memoria.
type memUsers struct {
	mu      sync.Mutex
	byUID      map[string]*entity.User
	failGet    error
	failCreate error
}

func newMemUsers() *memUsers {
	return &memUsers{byUID: map[string]*entity.User{}}
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	if _, ok := m.byUID[u.UID]; ok {
		return domain.ErrConflict
	}
	for _, x := range m.byUID {
		if x.UserID == u.UserID || x.Email == u.Email {
			return domain.ErrConflict
		}
	}
	cp := *u
	m.byUID[u.UID] = &cp
	return nil
}

func (m *memUsers) find(pred func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	for _, u := range m.byUID {
		if pred(u) {
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

func (m *memUsers) sorted(pred func(*entity.User) bool, limit, offset int) []*entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.byUID {
		if pred(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (m *memUsers) ListPending(_ context.Context, limit, offset int) ([]*entity.User, error) {
	return m.sorted(func(u *entity.User) bool { return u.IsActive && !u.IsApproved }, limit, offset), nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	return m.sorted(func(*entity.User) bool { return true }, limit, offset), nil
}

func (m *memUsers) CountPending(ctx context.Context) (int, error) {
	l, _ := m.ListPending(ctx, 1<<30, 0)
	return len(l), nil
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
	mu      sync.Mutex
	seq     int
	byUID   map[string]*entity.Identity
	failSet error
}

var _ repository.IdentityProvider = (*memIdentities)(nil)

func newMemIdentities() *memIdentities {
	return &memIdentities{byUID: map[string]*entity.Identity{}}
}

func (m *memIdentities) CreateUser(_ context.Context, in repository.IdentityToCreate) (*entity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byUID {
		if id.Email == in.Email {
			return nil, fmt.Errorf("%w: email en uso", domain.ErrConflict)
		}
	}
	m.seq++
	id := &entity.Identity{
		UID:         fmt.Sprintf("uid-%d", m.seq),
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Disabled:    in.Disabled,
		CreatedAt:   time.Now().UTC(),
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
	if m.failSet != nil {
		return m.failSet
	}
	id, ok := m.byUID[uid]
	if !ok {
		return errors.New("identidad inexistente")
	}
	id.Disabled = disabled
	return nil
}

func (m *memIdentities) disabled(uid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byUID[uid].Disabled
}
