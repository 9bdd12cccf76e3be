package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockEntryRequest body para POST /api/stock.
type CreateStockEntryRequest struct {
	MaterialID string          `json:"materialId" validate:"required"`
	Type       string          `json:"type" validate:"required,oneof=IN OUT"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Reference  string          `json:"reference" validate:"max=100"`
	Remarks    string          `json:"remarks" validate:"max=500"`
	EntryDate  string          `json:"entryDate" validate:"omitempty,datetime=2006-01-02"`
}

// StockEntryResponse salida de una entrada de stock.
type StockEntryResponse struct {
	ID           string          `json:"id"`
	MaterialID   string          `json:"materialId"`
	MaterialCode string          `json:"materialCode"`
	MaterialName string          `json:"materialName"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	Reference    string          `json:"reference"`
	Remarks      string          `json:"remarks"`
	EntryDate    time.Time       `json:"entryDate"`
	Status       string          `json:"status"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// StockEntryListResponse lista paginada de entradas.
type StockEntryListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// StockBalanceDTO saldo por material.
type StockBalanceDTO struct {
	MaterialID   string          `json:"materialId"`
	MaterialCode string          `json:"materialCode"`
	MaterialName string          `json:"materialName"`
	Unit         string          `json:"unit"`
	TotalIn      decimal.Decimal `json:"totalIn"`
	TotalOut     decimal.Decimal `json:"totalOut"`
	Balance      decimal.Decimal `json:"balance"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	BelowReorder bool            `json:"belowReorder"`
}
