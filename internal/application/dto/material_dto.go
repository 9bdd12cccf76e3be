package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear un material.
type CreateMaterialRequest struct {
	Code         string          `json:"code" validate:"required,min=1,max=50"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description" validate:"max=1000"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	Category     string          `json:"category" validate:"max=100"`
	HSNCode      string          `json:"hsnCode" validate:"max=20"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
}

// UpdateMaterialRequest actualización parcial (el código no se modifica).
type UpdateMaterialRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=1000"`
	Unit         *string          `json:"unit" validate:"omitempty,min=1,max=20"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	HSNCode      *string          `json:"hsnCode" validate:"omitempty,max=20"`
	ReorderLevel *decimal.Decimal `json:"reorderLevel"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	Category     string          `json:"category"`
	HSNCode      string          `json:"hsnCode"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	Status       string          `json:"status"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ArchiveRequest motivo opcional al archivar.
type ArchiveRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
