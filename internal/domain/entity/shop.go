package entity

import "time"

// Shop representa una tienda o sucursal del negocio.
// El CRUD de tiendas vive fuera del motor de ledger; aquí solo se leen.
type Shop struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}
