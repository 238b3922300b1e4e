package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateResourceRequest body para POST /api/resources.
type CreateResourceRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	ReorderLevel int64           `json:"reorder_level"`
}

// UpdateResourceRequest body para PUT /api/resources/{id}. Campos nil no se tocan.
type UpdateResourceRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit,omitempty"`
	ReorderLevel *int64           `json:"reorder_level,omitempty"`
}

// ResourceResponse representa un recurso del catálogo en respuestas HTTP.
type ResourceResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	ReorderLevel int64           `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ResourceListResponse listado paginado del catálogo.
type ResourceListResponse struct {
	Items []ResourceResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
