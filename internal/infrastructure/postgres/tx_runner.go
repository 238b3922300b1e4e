package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmora/shopledger-api/internal/application/ledger"
	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con todos
// los repositorios atados a la misma tx. Los fallos de serialización o
// deadlock se traducen a domain.ErrConcurrency para que el coordinador
// reintente.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := repository.Repos{
		Shops:         NewShopRepository(tx),
		Resources:     NewResourceRepository(tx),
		Balances:      NewBalanceRepository(tx),
		Audit:         NewAuditRepository(tx),
		Alerts:        NewAlertRepository(tx),
		Notifications: NewNotificationRepository(tx),
	}

	if err := fn(repos); err != nil {
		if isConcurrencyFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isConcurrencyFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
