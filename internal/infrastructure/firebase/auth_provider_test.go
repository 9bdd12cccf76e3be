package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var (
	errEmailTaken = errors.New("email-already-exists")
	errNoUser     = errors.New("user-not-found")
)

type fakeAuth struct {
	created   int
	createErr error
	getRec    *auth.UserRecord
	getErr    error
	updateErr error
	updatedID string
}

func (f *fakeAuth) CreateUser(_ context.Context, _ *auth.UserToCreate) (*auth.UserRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	return &auth.UserRecord{
		UserInfo:     &auth.UserInfo{UID: "fb-uid-1", Email: "anu@x.com", DisplayName: "Anu Raj"},
		Disabled:     true,
		UserMetadata: &auth.UserMetadata{CreationTimestamp: 1700000000000},
	}, nil
}

func (f *fakeAuth) GetUserByEmail(_ context.Context, _ string) (*auth.UserRecord, error) {
	return f.getRec, f.getErr
}

func (f *fakeAuth) UpdateUser(_ context.Context, uid string, _ *auth.UserToUpdate) (*auth.UserRecord, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updatedID = uid
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid}}, nil
}

func newTestProvider(f *fakeAuth) *AuthProvider {
	p := NewAuthProvider(f)
	p.isEmailTaken = func(err error) bool { return errors.Is(err, errEmailTaken) }
	p.isNotFound = func(err error) bool { return errors.Is(err, errNoUser) }
	return p
}

func TestAuthProvider_CreateUser(t *testing.T) {
	f := &fakeAuth{}
	id, err := newTestProvider(f).CreateUser(context.Background(), repository.IdentityToCreate{
		Email: "anu@x.com", Password: "Secreta#123", DisplayName: "Anu Raj", Disabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "fb-uid-1", id.UID)
	assert.True(t, id.Disabled)
	assert.Equal(t, int64(1700000000), id.CreatedAt.Unix())
}

func TestAuthProvider_CreateUserEmailEnUso(t *testing.T) {
	_, err := newTestProvider(&fakeAuth{createErr: errEmailTaken}).
		CreateUser(context.Background(), repository.IdentityToCreate{Email: "anu@x.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuthProvider_GetUserByEmail(t *testing.T) {
	t.Run("inexistente es nil", func(t *testing.T) {
		id, err := newTestProvider(&fakeAuth{getErr: errNoUser}).GetUserByEmail(context.Background(), "x@x.com")
		assert.NoError(t, err)
		assert.Nil(t, id)
	})
	t.Run("otro error se propaga", func(t *testing.T) {
		boom := errors.New("quota")
		_, err := newTestProvider(&fakeAuth{getErr: boom}).GetUserByEmail(context.Background(), "x@x.com")
		assert.ErrorIs(t, err, boom)
	})
}

func TestAuthProvider_SetDisabled(t *testing.T) {
	f := &fakeAuth{}
	require.NoError(t, newTestProvider(f).SetDisabled(context.Background(), "fb-uid-1", false))
	assert.Equal(t, "fb-uid-1", f.updatedID)

	err := newTestProvider(&fakeAuth{updateErr: errNoUser}).SetDisabled(context.Background(), "nadie", true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
