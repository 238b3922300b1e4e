package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL.
// La tabla balances tiene PK (shop_id, resource_id) y CHECK (quantity >= 0);
// la fila es el punto de serialización de los updates concurrentes del par.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = "shop_id, resource_id, quantity, last_updated, last_updated_by"

// ensureRow crea la fila en cero si no existe (get-or-create idempotente).
func (r *BalanceRepo) ensureRow(ctx context.Context, shopID, resourceID string) error {
	query := `
		INSERT INTO balances (shop_id, resource_id, quantity, last_updated)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (shop_id, resource_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, shopID, resourceID); err != nil {
		return fmt.Errorf("ensure balance: %w", err)
	}
	return nil
}

func (r *BalanceRepo) scanOne(ctx context.Context, query string, shopID, resourceID string) (*entity.Balance, error) {
	var b entity.Balance
	var updatedBy *string
	err := r.q.QueryRow(ctx, query, shopID, resourceID).Scan(
		&b.ShopID, &b.ResourceID, &b.Quantity, &b.LastUpdated, &updatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	if updatedBy != nil {
		b.LastUpdatedBy = *updatedBy
	}
	return &b, nil
}

// GetOrCreate devuelve el balance, creando la fila en cero la primera vez.
func (r *BalanceRepo) GetOrCreate(ctx context.Context, shopID, resourceID string) (*entity.Balance, error) {
	if err := r.ensureRow(ctx, shopID, resourceID); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + balanceColumns + `
		FROM balances WHERE shop_id = $1 AND resource_id = $2`
	return r.scanOne(ctx, query, shopID, resourceID)
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE), creándola en cero si no
// existe, para serializar los updates concurrentes del par.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, shopID, resourceID string) (*entity.Balance, error) {
	if err := r.ensureRow(ctx, shopID, resourceID); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + balanceColumns + `
		FROM balances WHERE shop_id = $1 AND resource_id = $2
		FOR UPDATE`
	return r.scanOne(ctx, query, shopID, resourceID)
}

// ApplyDelta aplica el delta sobre la fila ya bloqueada y devuelve el balance
// resultante. El CHECK (quantity >= 0) de la tabla convierte un delta que
// dejaría la cantidad negativa en domain.ErrInvalidQuantity.
func (r *BalanceRepo) ApplyDelta(ctx context.Context, shopID, resourceID string, delta int64, actor string, now time.Time) (*entity.Balance, error) {
	query := `
		UPDATE balances
		SET quantity = quantity + $3, last_updated = $4, last_updated_by = $5
		WHERE shop_id = $1 AND resource_id = $2
		RETURNING ` + balanceColumns
	var b entity.Balance
	var updatedBy *string
	err := r.q.QueryRow(ctx, query, shopID, resourceID, delta, now, actor).Scan(
		&b.ShopID, &b.ResourceID, &b.Quantity, &b.LastUpdated, &updatedBy,
	)
	if err != nil {
		if isCheckViolation(err) {
			return nil, domain.ErrInvalidQuantity
		}
		return nil, fmt.Errorf("apply delta: %w", err)
	}
	if updatedBy != nil {
		b.LastUpdatedBy = *updatedBy
	}
	return &b, nil
}

// ListByShop lista los balances de una tienda.
func (r *BalanceRepo) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances WHERE shop_id = $1
		ORDER BY resource_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	return scanBalances(rows)
}

// ListAll recorre todos los balances en orden estable (chequeo de consistencia).
func (r *BalanceRepo) ListAll(ctx context.Context, limit, offset int) ([]*entity.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		ORDER BY shop_id, resource_id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all balances: %w", err)
	}
	defer rows.Close()
	return scanBalances(rows)
}

func scanBalances(rows pgx.Rows) ([]*entity.Balance, error) {
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		var updatedBy *string
		if err := rows.Scan(&b.ShopID, &b.ResourceID, &b.Quantity, &b.LastUpdated, &updatedBy); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		if updatedBy != nil {
			b.LastUpdatedBy = *updatedBy
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
