package dto

import "time"

// SingleUpdateRequest body para POST /api/ledger/updates.
// NewQuantity es la cantidad absoluta resultante, no un delta.
type SingleUpdateRequest struct {
	ResourceID  string `json:"resource_id"`
	NewQuantity int64  `json:"new_quantity"`
	Reason      string `json:"reason"`
}

// BatchUpdateRequest body para POST /api/ledger/batch. El lote se aplica como
// una unidad atómica: o entran todos los cambios o no entra ninguno.
type BatchUpdateRequest struct {
	Updates []SingleUpdateRequest `json:"updates"`
}

// BalanceResponse balance actual de un recurso en una tienda.
type BalanceResponse struct {
	ShopID        string    `json:"shop_id"`
	ResourceID    string    `json:"resource_id"`
	Quantity      int64     `json:"quantity"`
	LastUpdated   time.Time `json:"last_updated"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}

// Cambios de estado de alerta reportados por un update.
const (
	AlertChangeNone      = ""
	AlertChangeActivated = "activated"
	AlertChangeResolved  = "resolved"
)

// UpdateResultResponse resultado de un update aplicado: balance resultante y
// transición de alerta, si la hubo.
type UpdateResultResponse struct {
	Balance     BalanceResponse `json:"balance"`
	Delta       int64           `json:"delta"`
	ChangeType  string          `json:"change_type"`
	AlertChange string          `json:"alert_change,omitempty"`
	Alert       *AlertResponse  `json:"alert,omitempty"`
}

// BatchOutcomeResponse reporte de éxito de un lote: un resultado por petición,
// en el orden de entrada.
type BatchOutcomeResponse struct {
	Results []UpdateResultResponse `json:"results"`
}

// AuditEntryResponse una entrada del historial.
type AuditEntryResponse struct {
	ID               string    `json:"id"`
	ShopID           string    `json:"shop_id"`
	ResourceID       string    `json:"resource_id"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	Delta            int64     `json:"delta"`
	ChangeType       string    `json:"change_type"`
	Reason           string    `json:"reason,omitempty"`
	UpdatedBy        string    `json:"updated_by,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HistoryResponse historial paginado de un (recurso, tienda), más reciente primero.
type HistoryResponse struct {
	Items []AuditEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
