package repository

import (
	"context"
	"time"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia de alertas.
// GetActiveForUpdate se usa dentro de la transacción del coordinador para que
// la decisión crear/resolver no compita con otra transacción del mismo par.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	// GetActiveForUpdate bloquea y devuelve la alerta activa del
	// (tienda, recurso, tipo), o nil si no hay ninguna.
	GetActiveForUpdate(ctx context.Context, shopID, resourceID, alertType string) (*entity.Alert, error)
	// Resolve marca la alerta como inactiva con resolvedAt.
	Resolve(ctx context.Context, id string, resolvedAt time.Time) error
	// ListActive lista alertas activas, opcionalmente filtradas por tienda
	// (shopID vacío = todas las tiendas), de la más reciente a la más antigua.
	ListActive(ctx context.Context, shopID string, limit, offset int) ([]*entity.Alert, error)
}
