package repository

import (
	"context"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// ResourceFilter filtros para listar el catálogo.
type ResourceFilter struct {
	Category string
	Name     string // coincidencia parcial, case-insensitive
}

// ResourceRepository define el puerto de persistencia del catálogo de recursos.
type ResourceRepository interface {
	Create(ctx context.Context, resource *entity.Resource) error
	GetByID(ctx context.Context, id string) (*entity.Resource, error)
	GetByName(ctx context.Context, name string) (*entity.Resource, error)
	Update(ctx context.Context, resource *entity.Resource) error
	List(ctx context.Context, filter ResourceFilter, limit, offset int) ([]*entity.Resource, error)
	// Delete elimina el recurso; el guard de uso (balances/historial) lo
	// aplica el caso de uso antes de llamar aquí.
	Delete(ctx context.Context, id string) error
	// HasActivity reporta si el recurso tiene algún balance distinto de cero
	// o alguna entrada de historial en cualquier tienda.
	HasActivity(ctx context.Context, id string) (bool, error)
}
