package repository

import (
	"context"
	"time"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// BalanceRepository define el puerto para el balance actual por tienda+recurso.
// ApplyDelta y GetForUpdate se usan solo dentro de la transacción del
// coordinador de updates; la fila de balance es el punto de serialización.
type BalanceRepository interface {
	// GetOrCreate devuelve el balance, creando la fila en cero la primera vez
	// que una tienda consulta un recurso (get-or-create idempotente).
	GetOrCreate(ctx context.Context, shopID, resourceID string) (*entity.Balance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE), creándola en cero si
	// no existe, para serializar los updates concurrentes del par.
	GetForUpdate(ctx context.Context, shopID, resourceID string) (*entity.Balance, error)
	// ApplyDelta es la única primitiva de mutación. Falla con
	// domain.ErrInvalidQuantity si la cantidad resultante sería negativa.
	ApplyDelta(ctx context.Context, shopID, resourceID string, delta int64, actor string, now time.Time) (*entity.Balance, error)
	// ListByShop lista los balances de una tienda.
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Balance, error)
	// ListAll recorre todos los balances (para el chequeo de consistencia).
	ListAll(ctx context.Context, limit, offset int) ([]*entity.Balance, error)
}
