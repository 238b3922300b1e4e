package repository

import (
	"context"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// AuditRepository define el puerto del audit trail. Solo inserta: nunca
// actualiza ni borra entradas existentes.
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
	// ListByResourceShop lista entradas de un par (recurso, tienda) de la más
	// reciente a la más antigua, con paginación.
	ListByResourceShop(ctx context.Context, resourceID, shopID string, limit, offset int) ([]*entity.AuditEntry, error)
	// ListChronological lista todas las entradas del par en orden de commit
	// (updated_at, seq ascendente), para el replay.
	ListChronological(ctx context.Context, resourceID, shopID string) ([]*entity.AuditEntry, error)
}
