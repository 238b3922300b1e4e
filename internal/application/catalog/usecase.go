package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidmora/shopledger-api/internal/application/dto"
	"github.com/davidmora/shopledger-api/internal/application/ledger"
	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// ResourceUseCase casos de uso CRUD del catálogo de recursos. Las cantidades
// no se tocan aquí: eso es del coordinador de updates.
type ResourceUseCase struct {
	txRunner     ledger.TxRunner
	resourceRepo repository.ResourceRepository
}

// NewResourceUseCase construye el caso de uso.
func NewResourceUseCase(txRunner ledger.TxRunner, resourceRepo repository.ResourceRepository) *ResourceUseCase {
	return &ResourceUseCase{txRunner: txRunner, resourceRepo: resourceRepo}
}

// Create crea un recurso del catálogo e inicializa su balance en cero para
// todas las tiendas conocidas, en la misma transacción.
func (uc *ResourceUseCase) Create(ctx context.Context, in dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if in.ReorderLevel < 0 {
		return nil, domain.NewValidationError("reorder_level", "no puede ser negativo")
	}
	if in.CostPerUnit.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("cost_per_unit", "no puede ser negativo")
	}
	if in.Unit == "" {
		in.Unit = "pieces"
	}
	existing, err := uc.resourceRepo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	resource := &entity.Resource{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Unit:         in.Unit,
		CostPerUnit:  in.CostPerUnit,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Resources.Create(ctx, resource); err != nil {
			return err
		}
		shops, err := r.Shops.List(ctx)
		if err != nil {
			return err
		}
		for _, shop := range shops {
			if _, err := r.Balances.GetOrCreate(ctx, shop.ID, resource.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResourceResponse(resource), nil
}

// GetByID obtiene un recurso por ID, o nil si no existe.
func (uc *ResourceUseCase) GetByID(ctx context.Context, id string) (*dto.ResourceResponse, error) {
	resource, err := uc.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, nil
	}
	return toResourceResponse(resource), nil
}

// Update actualiza campos del recurso. Campos nil no se tocan.
func (uc *ResourceUseCase) Update(ctx context.Context, id string, in dto.UpdateResourceRequest) (*dto.ResourceResponse, error) {
	resource, err := uc.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.NewValidationError("name", "no puede ser vacío")
		}
		resource.Name = *in.Name
	}
	if in.Description != nil {
		resource.Description = *in.Description
	}
	if in.Category != nil {
		resource.Category = *in.Category
	}
	if in.Unit != nil {
		resource.Unit = *in.Unit
	}
	if in.CostPerUnit != nil {
		if in.CostPerUnit.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError("cost_per_unit", "no puede ser negativo")
		}
		resource.CostPerUnit = *in.CostPerUnit
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.NewValidationError("reorder_level", "no puede ser negativo")
		}
		resource.ReorderLevel = *in.ReorderLevel
	}
	resource.UpdatedAt = time.Now()
	if err := uc.resourceRepo.Update(ctx, resource); err != nil {
		return nil, err
	}
	return toResourceResponse(resource), nil
}

// List lista el catálogo con filtros y paginación.
func (uc *ResourceUseCase) List(ctx context.Context, filter repository.ResourceFilter, limit, offset int) (*dto.ResourceListResponse, error) {
	list, err := uc.resourceRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ResourceResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toResourceResponse(r))
	}
	return &dto.ResourceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un recurso del catálogo. Falla con ErrConflict si el recurso
// tiene algún balance distinto de cero o historial en cualquier tienda: el
// audit trail nunca se huerfanea.
func (uc *ResourceUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r repository.Repos) error {
		resource, err := r.Resources.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if resource == nil {
			return domain.ErrNotFound
		}
		inUse, err := r.Resources.HasActivity(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return domain.ErrConflict
		}
		return r.Resources.Delete(ctx, id)
	})
}

func toResourceResponse(r *entity.Resource) *dto.ResourceResponse {
	return &dto.ResourceResponse{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Unit:         r.Unit,
		CostPerUnit:  r.CostPerUnit,
		ReorderLevel: r.ReorderLevel,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
