package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

const stockEntryColumns = `id, material_id, material_code, material_name, type, quantity, unit_price,
	total_value, reference, remarks, entry_date, status, created_by, created_at`

// Saldos sobre entradas activas; materiales sin movimientos quedan en cero.
const balanceSelect = `
	SELECT m.id, m.code, m.name, m.unit, m.reorder_level,
		COALESCE(SUM(e.quantity) FILTER (WHERE e.type = 'IN'), 0),
		COALESCE(SUM(e.quantity) FILTER (WHERE e.type = 'OUT'), 0)
	FROM materials m
	LEFT JOIN stock_entries e ON e.material_id = m.id AND e.status = 'active'`

// StockEntryRepo implementación de StockEntryRepository sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create inserta una entrada de stock.
func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	query := `INSERT INTO stock_entries (` + stockEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.MaterialID, e.MaterialCode, e.MaterialName, e.Type, e.Quantity, e.UnitPrice,
		e.TotalValue, e.Reference, e.Remarks, e.EntryDate, e.Status, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return writeErr("insert stock entry", err)
	}
	return nil
}

// GetByID obtiene una entrada; (nil, nil) si no existe.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	e, err := scanStockEntry(r.q.QueryRow(ctx, `SELECT `+stockEntryColumns+` FROM stock_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return e, nil
}

// List lista entradas con filtros opcionales, más recientes primero.
func (r *StockEntryRepo) List(ctx context.Context, f repository.StockEntryFilter, limit, offset int) ([]*entity.StockEntry, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.MaterialID != "" {
		add("material_id = $%d", f.MaterialID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if !f.From.IsZero() {
		add("entry_date >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("entry_date <= $%d", f.To)
	}
	query := `SELECT ` + stockEntryColumns + ` FROM stock_entries`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockEntry
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetStatus cambia el estado de una entrada (active/archived).
func (r *StockEntryRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_entries SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return writeErr("update stock entry status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Balances saldo por material activo, ordenado por código.
func (r *StockEntryRepo) Balances(ctx context.Context) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, balanceSelect+` WHERE m.status = 'active' GROUP BY m.id ORDER BY m.code`)
	if err != nil {
		return nil, fmt.Errorf("stock balances: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BalanceOf saldo de un material. Material inexistente devuelve saldo cero.
func (r *StockEntryRepo) BalanceOf(ctx context.Context, materialID string) (*entity.StockBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, balanceSelect+` WHERE m.id = $1 GROUP BY m.id`, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{
				MaterialID: materialID,
				TotalIn:    decimal.Zero,
				TotalOut:   decimal.Zero,
				Balance:    decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("stock balance: %w", err)
	}
	return b, nil
}

func scanStockEntry(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := row.Scan(
		&e.ID, &e.MaterialID, &e.MaterialCode, &e.MaterialName, &e.Type, &e.Quantity, &e.UnitPrice,
		&e.TotalValue, &e.Reference, &e.Remarks, &e.EntryDate, &e.Status, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	if err := row.Scan(&b.MaterialID, &b.MaterialCode, &b.MaterialName, &b.Unit, &b.ReorderLevel, &b.TotalIn, &b.TotalOut); err != nil {
		return nil, err
	}
	b.Balance = b.TotalIn.Sub(b.TotalOut)
	return &b, nil
}
