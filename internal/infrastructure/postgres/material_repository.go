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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, code, name, description, unit, category, hsn_code, reorder_level,
	status, created_by, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create inserta un material. Código duplicado es domain.ErrConflict.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Code, m.Name, m.Description, m.Unit, m.Category, m.HSNCode, m.ReorderLevel,
		m.Status, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert material", err)
	}
	return nil
}

// GetByID obtiene un material por ID; (nil, nil) si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.findOne(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
}

// GetByCode obtiene un material por código; (nil, nil) si no existe.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	return r.findOne(ctx, `SELECT `+materialColumns+` FROM materials WHERE code = $1`, code)
}

// List lista materiales ordenados por código. status vacío = todos.
func (r *MaterialRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials
		WHERE ($1::text = '' OR status = $1)
		ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update actualiza los campos editables.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials SET name = $2, description = $3, unit = $4, category = $5,
			hsn_code = $6, reorder_level = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Description, m.Unit, m.Category, m.HSNCode, m.ReorderLevel, m.UpdatedAt,
	)
	if err != nil {
		return writeErr("update material", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus cambia el estado (active/archived).
func (r *MaterialRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE materials SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return writeErr("update material status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaterialRepo) findOne(ctx context.Context, query string, arg any) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Code, &m.Name, &m.Description, &m.Unit, &m.Category, &m.HSNCode, &m.ReorderLevel,
		&m.Status, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
