package entity

import (
	"fmt"
	"time"
)

// Tipos de alerta.
const (
	AlertTypeLowStock = "low_stock"
)

// Alert representa un episodio de alerta derivado del balance.
// Invariante: a lo sumo una alerta activa por (tienda, recurso, tipo).
// Se crea cuando el balance cruza el umbral hacia abajo y se resuelve
// automáticamente al subir por encima del umbral, o manualmente.
type Alert struct {
	ID         string
	ShopID     string
	ResourceID string
	AlertType  string
	Message    string
	IsActive   bool
	CreatedAt  time.Time
	ResolvedAt *time.Time // nil mientras está activa
}

// LowStockMessage formatea el mensaje de alerta de stock bajo.
func LowStockMessage(resourceName string, reorderLevel int64) string {
	return fmt.Sprintf("Low stock alert: %s is below reorder level (%d)", resourceName, reorderLevel)
}
