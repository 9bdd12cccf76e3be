package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var _ repository.IdentityProvider = (*IdentityRepo)(nil)

// IdentityRepo proveedor de identidad local (tabla identities) para el backend postgres.
// No guarda contraseñas: la verificación se hace contra el hash del perfil.
type IdentityRepo struct {
	q Querier
}

// NewIdentityRepository construye el proveedor de identidad local.
func NewIdentityRepository(q Querier) *IdentityRepo {
	return &IdentityRepo{q: q}
}

// CreateUser crea la identidad con un uid nuevo. Email duplicado es domain.ErrConflict.
func (r *IdentityRepo) CreateUser(ctx context.Context, in repository.IdentityToCreate) (*entity.Identity, error) {
	id := &entity.Identity{
		UID:         uuid.New().String(),
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Disabled:    in.Disabled,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO identities (uid, email, display_name, disabled, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id.UID, id.Email, id.DisplayName, id.Disabled, id.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: el email ya tiene una cuenta", domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return id, nil
}

// GetUserByEmail devuelve (nil, nil) si no existe.
func (r *IdentityRepo) GetUserByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var id entity.Identity
	err := r.q.QueryRow(ctx,
		`SELECT uid, email, display_name, disabled, created_at FROM identities WHERE email = $1`, email,
	).Scan(&id.UID, &id.Email, &id.DisplayName, &id.Disabled, &id.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get identity by email: %w", err)
	}
	return &id, nil
}

// SetDisabled habilita o deshabilita la identidad.
func (r *IdentityRepo) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE identities SET disabled = $2 WHERE uid = $1`, uid, disabled)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
