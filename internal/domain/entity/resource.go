package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource representa un recurso operativo consumible del catálogo compartido
// entre tiendas (papel de impresora, tinta, empaques, etc.).
// ReorderLevel es el umbral de stock bajo; CostPerUnit el costo unitario.
type Resource struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Unit         string // ej. "sheets", "ml", "pieces"
	CostPerUnit  decimal.Decimal
	ReorderLevel int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
