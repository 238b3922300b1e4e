package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del audit trail sobre PostgreSQL. Solo inserta:
// la tabla audit_entries no recibe UPDATE ni DELETE desde la aplicación.
// seq es un BIGSERIAL que desempata entradas con el mismo timestamp, de modo
// que (updated_at, seq) da el orden de commit determinista del replay.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditColumns = "id, seq, shop_id, resource_id, previous_quantity, new_quantity, delta, change_type, reason, updated_by, updated_at"

// Append persiste una entrada de auditoría y completa su Seq asignado.
func (r *AuditRepo) Append(ctx context.Context, entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_entries (id, shop_id, resource_id, previous_quantity, new_quantity, delta, change_type, reason, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`
	reason := (*string)(nil)
	if entry.Reason != "" {
		reason = &entry.Reason
	}
	err := r.q.QueryRow(ctx, query,
		entry.ID, entry.ShopID, entry.ResourceID, entry.PreviousQuantity,
		entry.NewQuantity, entry.Delta, entry.ChangeType, reason,
		entry.UpdatedBy, entry.UpdatedAt,
	).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListByResourceShop lista entradas del par, más reciente primero.
func (r *AuditRepo) ListByResourceShop(ctx context.Context, resourceID, shopID string, limit, offset int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_entries
		WHERE resource_id = $1 AND shop_id = $2
		ORDER BY updated_at DESC, seq DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, resourceID, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

// ListChronological lista todas las entradas del par en orden de commit, para
// el replay.
func (r *AuditRepo) ListChronological(ctx context.Context, resourceID, shopID string) ([]*entity.AuditEntry, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_entries
		WHERE resource_id = $1 AND shop_id = $2
		ORDER BY updated_at ASC, seq ASC`
	rows, err := r.q.Query(ctx, query, resourceID, shopID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries chronological: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

func scanAuditEntries(rows pgx.Rows) ([]*entity.AuditEntry, error) {
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var reason, updatedBy *string
		if err := rows.Scan(&e.ID, &e.Seq, &e.ShopID, &e.ResourceID, &e.PreviousQuantity,
			&e.NewQuantity, &e.Delta, &e.ChangeType, &reason, &updatedBy, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if reason != nil {
			e.Reason = *reason
		}
		if updatedBy != nil {
			e.UpdatedBy = *updatedBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
