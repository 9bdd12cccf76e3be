package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de registros archivables (materiales y entradas de stock).
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Material es un registro maestro de material.
type Material struct {
	ID           string
	Code         string // único
	Name         string
	Description  string
	Unit         string // unidad de medida: kg, nos, m, ...
	Category     string
	HSNCode      string
	ReorderLevel decimal.Decimal
	Status       string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si el material no está archivado.
func (m *Material) IsActive() bool {
	return m.Status == StatusActive
}
