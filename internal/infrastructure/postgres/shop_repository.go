package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo lectura de tiendas sobre PostgreSQL. El alta de tiendas pertenece
// al módulo administrativo, fuera de este servicio.
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

// GetByID obtiene una tienda por ID, o nil si no existe.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	query := `SELECT id, name, location, created_at FROM shops WHERE id = $1`
	var s entity.Shop
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return &s, nil
}

// List lista todas las tiendas.
func (r *ShopRepo) List(ctx context.Context) ([]*entity.Shop, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, location, created_at FROM shops ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shop
	for rows.Next() {
		var s entity.Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
