package entity

import "time"

// Tipos de cambio de un balance. Se derivan del signo del delta:
// positivo → add, negativo → remove, cero → adjust.
const (
	ChangeTypeAdd    = "add"
	ChangeTypeRemove = "remove"
	ChangeTypeAdjust = "adjust"
)

// AuditEntry representa una transición de balance, inmutable y append-only.
// Para un (tienda, recurso) las entradas ordenadas por (UpdatedAt, Seq) forman
// una cadena: PreviousQuantity de cada entrada == NewQuantity de la anterior
// (0 para la primera). El balance vivo equivale al NewQuantity de la última.
type AuditEntry struct {
	ID               string
	Seq              int64 // desempate monotónico por inserción (BIGSERIAL)
	ShopID           string
	ResourceID       string
	PreviousQuantity int64
	NewQuantity      int64
	Delta            int64 // NewQuantity - PreviousQuantity
	ChangeType       string
	Reason           string
	UpdatedBy        string
	UpdatedAt        time.Time
}

// ChangeTypeForDelta deriva el tipo de cambio del signo del delta.
func ChangeTypeForDelta(delta int64) string {
	switch {
	case delta > 0:
		return ChangeTypeAdd
	case delta < 0:
		return ChangeTypeRemove
	default:
		return ChangeTypeAdjust
	}
}
