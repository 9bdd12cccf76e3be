package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada de stock.
const (
	StockEntryIN  = "IN"  // recepción
	StockEntryOUT = "OUT" // consumo / despacho
)

// StockEntry registra una entrada o salida de un material.
type StockEntry struct {
	ID           string
	MaterialID   string
	MaterialCode string
	MaterialName string
	Type         string
	Quantity     decimal.Decimal // siempre positiva; el signo lo da Type
	UnitPrice    decimal.Decimal
	TotalValue   decimal.Decimal
	Reference    string // factura / challan
	Remarks      string
	EntryDate    time.Time
	Status       string
	CreatedBy    string
	CreatedAt    time.Time
}

// SignedQuantity devuelve la cantidad con signo (+IN, -OUT).
func (e *StockEntry) SignedQuantity() decimal.Decimal {
	if e.Type == StockEntryOUT {
		return e.Quantity.Neg()
	}
	return e.Quantity
}

// StockBalance saldo de un material (ΣIN − ΣOUT sobre entradas activas).
type StockBalance struct {
	MaterialID   string
	MaterialCode string
	MaterialName string
	Unit         string
	TotalIn      decimal.Decimal
	TotalOut     decimal.Decimal
	Balance      decimal.Decimal
	ReorderLevel decimal.Decimal
}

// BelowReorder indica si el saldo está en o bajo el nivel de reorden.
func (b *StockBalance) BelowReorder() bool {
	return b.ReorderLevel.IsPositive() && b.Balance.LessThanOrEqual(b.ReorderLevel)
}
