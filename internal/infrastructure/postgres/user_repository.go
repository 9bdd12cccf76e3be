package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `uid, user_id, email, first_name, last_name, father_name, dob, password_hash,
	role, is_active, is_approved, created_at, approved_at, approved_by, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para perfiles.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo perfil. user_id y email son únicos: un duplicado es domain.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		u.UID, u.UserID, u.Email, u.FirstName, u.LastName, u.FatherName, u.DOB, u.PasswordHash,
		u.Role, u.IsActive, u.IsApproved, u.CreatedAt, u.ApprovedAt, u.ApprovedBy, u.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert user", err)
	}
	return nil
}

// GetByUID obtiene un perfil por uid.
func (r *UserRepo) GetByUID(ctx context.Context, uid string) (*entity.User, error) {
	return r.findOne(ctx, "uid", uid)
}

// GetByUserID obtiene un perfil por identificador de login.
func (r *UserRepo) GetByUserID(ctx context.Context, userID string) (*entity.User, error) {
	return r.findOne(ctx, "user_id", userID)
}

// GetByEmail obtiene un perfil por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", email)
}

// ListPending perfiles activos sin aprobar, más antiguos primero.
func (r *UserRepo) ListPending(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE is_active AND NOT is_approved
		ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// List todos los perfiles, más recientes primero.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// CountPending número de perfiles pendientes de aprobación.
func (r *UserRepo) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE is_active AND NOT is_approved`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending users: %w", err)
	}
	return n, nil
}

// Update actualiza estado, rol y datos de aprobación. user_id y email no cambian.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET role = $2, is_active = $3, is_approved = $4,
			approved_at = $5, approved_by = $6, password_hash = $7, updated_at = $8
		WHERE uid = $1`
	tag, err := r.q.Exec(ctx, query,
		u.UID, u.Role, u.IsActive, u.IsApproved, u.ApprovedAt, u.ApprovedBy, u.PasswordHash, u.UpdatedAt,
	)
	if err != nil {
		return writeErr("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// column viene siempre de una constante de este archivo.
func (r *UserRepo) findOne(ctx context.Context, column, value string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	u, err := scanUser(r.q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return u, nil
}

func (r *UserRepo) list(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.UID, &u.UserID, &u.Email, &u.FirstName, &u.LastName, &u.FatherName, &u.DOB, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.IsApproved, &u.CreatedAt, &u.ApprovedAt, &u.ApprovedBy, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
