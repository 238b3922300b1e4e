package ledger

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/davidmora/shopledger-api/internal/domain/ledger"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// ConsistencyChecker verifica periódicamente que cada balance vivo coincide
// con el replay de su audit trail desde cero. Un desajuste indica corrupción
// del libro mayor y se registra; nunca se "corrige" automáticamente, el
// trail es la fuente de verdad y la decisión es de un operador.
type ConsistencyChecker struct {
	balanceRepo repository.BalanceRepository
	auditRepo   repository.AuditRepository
	log         zerolog.Logger
}

// NewConsistencyChecker construye el verificador.
func NewConsistencyChecker(balanceRepo repository.BalanceRepository, auditRepo repository.AuditRepository, log zerolog.Logger) *ConsistencyChecker {
	return &ConsistencyChecker{balanceRepo: balanceRepo, auditRepo: auditRepo, log: log}
}

const checkPageSize = 200

// Run recorre todos los balances y compara cada uno con su replay.
// Devuelve el número de desajustes encontrados.
func (c *ConsistencyChecker) Run(ctx context.Context) (int, error) {
	mismatches := 0
	for offset := 0; ; offset += checkPageSize {
		balances, err := c.balanceRepo.ListAll(ctx, checkPageSize, offset)
		if err != nil {
			return mismatches, err
		}
		if len(balances) == 0 {
			return mismatches, nil
		}
		for _, b := range balances {
			entries, err := c.auditRepo.ListChronological(ctx, b.ResourceID, b.ShopID)
			if err != nil {
				return mismatches, err
			}
			replayed, err := ledger.Replay(entries)
			if err != nil {
				mismatches++
				c.log.Error().
					Str("shop_id", b.ShopID).
					Str("resource_id", b.ResourceID).
					Err(err).
					Msg("cadena de auditoría rota")
				continue
			}
			if replayed != b.Quantity {
				mismatches++
				c.log.Error().
					Str("shop_id", b.ShopID).
					Str("resource_id", b.ResourceID).
					Int64("balance", b.Quantity).
					Int64("replay", replayed).
					Msg("balance no coincide con el replay del historial")
			}
		}
	}
}
