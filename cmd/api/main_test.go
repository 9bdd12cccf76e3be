package main

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magizh-industries/magizh-api/internal/application/auth"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
	"github.com/magizh-industries/magizh-api/pkg/config"
	"github.com/magizh-industries/magizh-api/pkg/logger"
)

type seedUsers struct {
	mu    sync.Mutex
	users []*entity.User
}

func (s *seedUsers) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users = append(s.users, &cp)
	return nil
}

func (s *seedUsers) find(pred func(*entity.User) bool) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if pred(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (s *seedUsers) GetByUID(_ context.Context, uid string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.UID == uid }), nil
}

func (s *seedUsers) GetByUserID(_ context.Context, userID string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.UserID == userID }), nil
}

func (s *seedUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (s *seedUsers) ListPending(context.Context, int, int) ([]*entity.User, error) { return nil, nil }
func (s *seedUsers) List(context.Context, int, int) ([]*entity.User, error)        { return nil, nil }
func (s *seedUsers) CountPending(context.Context) (int, error)                     { return 0, nil }

func (s *seedUsers) Update(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.users {
		if x.UID == u.UID {
			cp := *u
			s.users[i] = &cp
		}
	}
	return nil
}

// seedIdentities guarda la contraseña recibida para compararla con la salida del log.
type seedIdentities struct {
	password string
	n        int
}

func (s *seedIdentities) CreateUser(_ context.Context, in repository.IdentityToCreate) (*entity.Identity, error) {
	s.n++
	s.password = in.Password
	return &entity.Identity{UID: fmt.Sprintf("uid-%d", s.n), Email: in.Email, Disabled: in.Disabled, CreatedAt: time.Now()}, nil
}

func (s *seedIdentities) GetUserByEmail(context.Context, string) (*entity.Identity, error) {
	return nil, nil
}

func (s *seedIdentities) SetDisabled(context.Context, string, bool) error { return nil }

func TestSeedAdmin_LogNoIncluyeContrasena(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "info", Out: &buf})
	identities := &seedIdentities{}
	uc := auth.NewAuthUseCase(&seedUsers{}, identities,
		auth.NewTokenService(auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5}),
		auth.Options{BcryptCost: bcrypt.MinCost}, log)

	seedAdmin(context.Background(), uc, config.AdminSeedConfig{
		FirstName: "Magizh", LastName: "Admin", FatherName: "Senthil", DOB: "1980-07-15", Email: "admin@magizh.in",
	}, log)

	require.NotEmpty(t, identities.password)
	assert.Contains(t, buf.String(), "administrador creado")
	assert.NotContains(t, buf.String(), identities.password)
	assert.NotContains(t, buf.String(), `"password"`)
}
