package repository

import (
	"context"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// ShopRepository define el puerto de lectura de tiendas. El alta y edición de
// tiendas pertenece al módulo administrativo, fuera de este motor.
type ShopRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	List(ctx context.Context) ([]*entity.Shop, error)
}
