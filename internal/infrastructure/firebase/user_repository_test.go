package firebase

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// emulatorClient cliente contra el emulador de Firestore, en un proyecto nuevo por prueba.
func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST no definido")
	}
	client, err := firestore.NewClient(context.Background(), fmt.Sprintf("magizh-test-%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestUserRepo_ListMasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(emulatorClient(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, uid := range []string{"uid-a", "uid-b", "uid-c"} {
		require.NoError(t, repo.Create(ctx, &entity.User{
			UID: uid, UserID: "user" + uid, Email: uid + "@x.com", Role: entity.RoleEmployee,
			IsActive: true, CreatedAt: base.Add(time.Duration(i) * time.Hour), UpdatedAt: base,
		}))
	}

	users, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "uid-c", users[0].UID)
	assert.Equal(t, "uid-a", users[2].UID)

	pending, err := repo.ListPending(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "uid-a", pending[0].UID)
}
