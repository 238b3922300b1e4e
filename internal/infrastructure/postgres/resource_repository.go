package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo implementación del catálogo de recursos sobre PostgreSQL.
type ResourceRepo struct {
	q Querier
}

// NewResourceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewResourceRepository(q Querier) *ResourceRepo {
	return &ResourceRepo{q: q}
}

const resourceColumns = "id, name, description, category, unit, cost_per_unit, reorder_level, created_at, updated_at"

// Create persiste un recurso del catálogo.
func (r *ResourceRepo) Create(ctx context.Context, resource *entity.Resource) error {
	query := `
		INSERT INTO resources (id, name, description, category, unit, cost_per_unit, reorder_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		resource.ID, resource.Name, resource.Description, resource.Category,
		resource.Unit, resource.CostPerUnit, resource.ReorderLevel,
		resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// GetByID obtiene un recurso por ID, o nil si no existe.
func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*entity.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByName obtiene un recurso por nombre exacto, o nil si no existe.
func (r *ResourceRepo) GetByName(ctx context.Context, name string) (*entity.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE name = $1`
	return r.getOne(ctx, query, name)
}

func (r *ResourceRepo) getOne(ctx context.Context, query string, arg any) (*entity.Resource, error) {
	var res entity.Resource
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&res.ID, &res.Name, &res.Description, &res.Category, &res.Unit,
		&res.CostPerUnit, &res.ReorderLevel, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &res, nil
}

// Update actualiza los campos editables del recurso.
func (r *ResourceRepo) Update(ctx context.Context, resource *entity.Resource) error {
	query := `
		UPDATE resources
		SET name = $2, description = $3, category = $4, unit = $5,
		    cost_per_unit = $6, reorder_level = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		resource.ID, resource.Name, resource.Description, resource.Category,
		resource.Unit, resource.CostPerUnit, resource.ReorderLevel, resource.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista el catálogo con filtros opcionales y paginación.
func (r *ResourceRepo) List(ctx context.Context, filter repository.ResourceFilter, limit, offset int) ([]*entity.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", pos)
		args = append(args, "%"+filter.Name+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()
	var list []*entity.Resource
	for rows.Next() {
		var res entity.Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Description, &res.Category, &res.Unit,
			&res.CostPerUnit, &res.ReorderLevel, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// Delete elimina el recurso y sus balances en cero asociados. El guard de
// actividad corre antes en el caso de uso, dentro de la misma transacción.
func (r *ResourceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM balances WHERE resource_id = $1 AND quantity = 0`, id); err != nil {
		return fmt.Errorf("delete zero balances: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasActivity reporta si el recurso tiene balances distintos de cero o
// historial de auditoría en cualquier tienda.
func (r *ResourceRepo) HasActivity(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM balances WHERE resource_id = $1 AND quantity <> 0)
		    OR EXISTS (SELECT 1 FROM audit_entries WHERE resource_id = $1)`
	var active bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&active); err != nil {
		return false, fmt.Errorf("check resource activity: %w", err)
	}
	return active, nil
}
