package entity

import "time"

// Balance representa la cantidad actual de un recurso en una tienda.
// Es una proyección cacheada del audit trail: siempre debe poder
// reconstruirse replegando las entradas desde cero (ver ledger.Replay).
// Invariante: Quantity >= 0. Solo el coordinador de updates la muta.
type Balance struct {
	ShopID        string
	ResourceID    string
	Quantity      int64
	LastUpdated   time.Time
	LastUpdatedBy string
}
