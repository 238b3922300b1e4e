package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL. Un índice
// único parcial sobre (shop_id, resource_id, alert_type) WHERE is_active
// respalda en el almacenamiento el invariante de una sola alerta activa.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = "id, shop_id, resource_id, alert_type, message, is_active, created_at, resolved_at"

// Create persiste una alerta. Una violación del índice único parcial (otra
// transacción ya creó la activa del par) se reporta como ErrConcurrency para
// que el coordinador reintente y relea el estado.
func (r *AlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, shop_id, resource_id, alert_type, message, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		alert.ID, alert.ShopID, alert.ResourceID, alert.AlertType,
		alert.Message, alert.IsActive, alert.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: alerta activa duplicada", domain.ErrConcurrency)
		}
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID, o nil si no existe.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	a, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// GetActiveForUpdate bloquea y devuelve la alerta activa del par, o nil.
func (r *AlertRepo) GetActiveForUpdate(ctx context.Context, shopID, resourceID, alertType string) (*entity.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE shop_id = $1 AND resource_id = $2 AND alert_type = $3 AND is_active
		FOR UPDATE`
	a, err := r.scanOne(r.q.QueryRow(ctx, query, shopID, resourceID, alertType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active alert: %w", err)
	}
	return a, nil
}

// Resolve marca la alerta como inactiva con resolvedAt.
func (r *AlertRepo) Resolve(ctx context.Context, id string, resolvedAt time.Time) error {
	query := `
		UPDATE alerts SET is_active = false, resolved_at = $2
		WHERE id = $1 AND is_active`
	tag, err := r.q.Exec(ctx, query, id, resolvedAt)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListActive lista alertas activas, opcionalmente por tienda, más reciente primero.
func (r *AlertRepo) ListActive(ctx context.Context, shopID string, limit, offset int) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE is_active`
	args := []any{}
	pos := 1
	if shopID != "" {
		query += fmt.Sprintf(" AND shop_id = $%d", pos)
		args = append(args, shopID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AlertRepo) scanOne(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	if err := row.Scan(&a.ID, &a.ShopID, &a.ResourceID, &a.AlertType,
		&a.Message, &a.IsActive, &a.CreatedAt, &a.ResolvedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
