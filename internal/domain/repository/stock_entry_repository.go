package repository

import (
	"context"
	"time"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// StockEntryFilter filtros de listado. Campos vacíos o cero no filtran.
type StockEntryFilter struct {
	MaterialID string
	Status     string
	From       time.Time
	To         time.Time
}

// StockEntryRepository define el puerto de persistencia para entradas de stock.
type StockEntryRepository interface {
	Create(ctx context.Context, e *entity.StockEntry) error
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	List(ctx context.Context, f StockEntryFilter, limit, offset int) ([]*entity.StockEntry, error)
	SetStatus(ctx context.Context, id, status string) error
	// Balances agrega ΣIN y ΣOUT de entradas activas por material.
	Balances(ctx context.Context) ([]*entity.StockBalance, error)
	// BalanceOf saldo de un material (entradas activas).
	BalanceOf(ctx context.Context, materialID string) (*entity.StockBalance, error)
}
