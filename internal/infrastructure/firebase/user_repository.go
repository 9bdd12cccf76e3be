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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo perfiles en la colección users, con el uid de Firebase Auth como ID de documento.
type UserRepo struct {
	col *firestore.CollectionRef
}

// NewUserRepository construye el adaptador.
func NewUserRepository(client *firestore.Client) *UserRepo {
	return &UserRepo{col: client.Collection(usersCollection)}
}

// Create falla con domain.ErrConflict si el documento ya existe.
// La unicidad de userId y email la verifica el caso de uso antes de escribir.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if _, err := r.col.Doc(u.UID).Create(ctx, newUserDoc(u)); err != nil {
		return writeErr("create user", err)
	}
	return nil
}

func (r *UserRepo) GetByUID(ctx context.Context, uid string) (*entity.User, error) {
	snap, err := r.col.Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return decodeUser(snap)
}

func (r *UserRepo) GetByUserID(ctx context.Context, userID string) (*entity.User, error) {
	return r.first(ctx, r.col.Where("userId", "==", userID))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, r.col.Where("email", "==", email))
}

// ListPending activos y no aprobados, más antiguos primero.
func (r *UserRepo) ListPending(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	q := r.pendingQuery().OrderBy("createdAt", firestore.Asc).Offset(offset).Limit(limit)
	return r.all(ctx, q)
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return r.all(ctx, r.col.OrderBy("createdAt", firestore.Desc).Offset(offset).Limit(limit))
}

// CountPending cuenta solo referencias (Select sin campos).
func (r *UserRepo) CountPending(ctx context.Context) (int, error) {
	snaps, err := r.pendingQuery().Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("count pending users: %w", err)
	}
	return len(snaps), nil
}

// Update reemplaza el documento. Si no existe devuelve domain.ErrUserNotFound.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	ref := r.col.Doc(u.UID)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	if _, err := ref.Set(ctx, newUserDoc(u)); err != nil {
		return writeErr("update user", err)
	}
	return nil
}

func (r *UserRepo) pendingQuery() firestore.Query {
	return r.col.Where("isActive", "==", true).Where("isApproved", "==", false)
}

func (r *UserRepo) first(ctx context.Context, q firestore.Query) (*entity.User, error) {
	it := q.Limit(1).Documents(ctx)
	defer it.Stop()
	snap, err := it.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return decodeUser(snap)
}

func (r *UserRepo) all(ctx context.Context, q firestore.Query) ([]*entity.User, error) {
	it := q.Documents(ctx)
	defer it.Stop()
	var out []*entity.User
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
}

func decodeUser(snap *firestore.DocumentSnapshot) (*entity.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	return d.toEntity(snap.Ref.ID), nil
}
