package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

func adminSeed() AdminSeed {
	return AdminSeed{FirstName: "Magizh", LastName: "Admin", FatherName: "Senthil", DOB: "1980-07-15", Email: "admin@magizh.in"}
}

func TestSeedAdmin_CreaAdminAprobado(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	res, err := f.auth.SeedAdmin(ctx, adminSeed())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "magizhsa1507", res.UserID)
	assert.NotEmpty(t, res.Password)

	stored, err := f.users.GetByUID(ctx, res.UID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, stored.Role)
	assert.True(t, stored.CanLogin())
	require.NotNil(t, stored.ApprovedAt)

	login, err := f.auth.Login(ctx, dto.LoginRequest{Identifier: res.UserID, Password: res.Password})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, login.User.Role)
}

func TestSeedAdmin_Idempotente(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	first, err := f.auth.SeedAdmin(ctx, adminSeed())
	require.NoError(t, err)

	second, err := f.auth.SeedAdmin(ctx, adminSeed())
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.UID, second.UID)
	assert.Empty(t, second.Password)

	all, _ := f.users.List(ctx, 10, 0)
	assert.Len(t, all, 1)
}

func TestSeedAdmin_ReutilizaIdentidadExistente(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	id, err := f.identities.CreateUser(ctx, repository.IdentityToCreate{Email: "admin@magizh.in", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, f.identities.SetDisabled(ctx, id.UID, true))

	res, err := f.auth.SeedAdmin(ctx, adminSeed())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, id.UID, res.UID)
	assert.False(t, f.identities.disabled(id.UID))
}

func TestSeedAdmin_NoDeshabilitaIdentidadAjena(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	id, err := f.identities.CreateUser(ctx, repository.IdentityToCreate{Email: "admin@magizh.in", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, f.users.Create(ctx, &entity.User{
		UID: id.UID, UserID: "otro0101", Email: "otro@magizh.in", Role: entity.RoleEmployee,
	}))

	_, err = f.auth.SeedAdmin(ctx, adminSeed())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, f.identities.disabled(id.UID))
}

func TestSeedAdmin_DatosIncompletos(t *testing.T) {
	f := newFixture(true)
	in := adminSeed()
	in.FatherName = ""
	_, err := f.auth.SeedAdmin(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
