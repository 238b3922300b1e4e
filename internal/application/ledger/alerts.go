package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// evaluateAlert reevalúa la alerta low_stock del par tras un cambio de
// balance, dentro de la misma transacción. Bloquea la alerta activa antes de
// decidir para que la transición no compita con otra transacción del par.
//
// Máquina de estados por (tienda, recurso, tipo):
//   - cantidad <= umbral y sin alerta activa → se crea una (a lo sumo una
//     activa por par: el guard de deduplicación).
//   - cantidad > umbral y alerta activa → se resuelve automáticamente.
func evaluateAlert(ctx context.Context, r repository.Repos, resource *entity.Resource, shopID string, newQuantity int64, now time.Time) (string, *entity.Alert, error) {
	active, err := r.Alerts.GetActiveForUpdate(ctx, shopID, resource.ID, entity.AlertTypeLowStock)
	if err != nil {
		return "", nil, err
	}

	if newQuantity <= resource.ReorderLevel {
		if active != nil {
			return "", active, nil
		}
		alert := &entity.Alert{
			ID:         uuid.New().String(),
			ShopID:     shopID,
			ResourceID: resource.ID,
			AlertType:  entity.AlertTypeLowStock,
			Message:    entity.LowStockMessage(resource.Name, resource.ReorderLevel),
			IsActive:   true,
			CreatedAt:  now,
		}
		if err := r.Alerts.Create(ctx, alert); err != nil {
			return "", nil, err
		}
		if err := notifyAlertChange(ctx, r, shopID, "Stock bajo", alert.Message, entity.NotificationWarning, now); err != nil {
			return "", nil, err
		}
		return AlertChangeActivated, alert, nil
	}

	if active == nil {
		return "", nil, nil
	}
	if err := r.Alerts.Resolve(ctx, active.ID, now); err != nil {
		return "", nil, err
	}
	resolved := *active
	resolved.IsActive = false
	resolved.ResolvedAt = &now
	msg := "Stock recovered: " + resource.Name + " is above reorder level"
	if err := notifyAlertChange(ctx, r, shopID, "Stock recuperado", msg, entity.NotificationSuccess, now); err != nil {
		return "", nil, err
	}
	return AlertChangeResolved, &resolved, nil
}

func notifyAlertChange(ctx context.Context, r repository.Repos, shopID, title, message, typ string, now time.Time) error {
	return r.Notifications.Create(ctx, &entity.Notification{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: now,
	})
}

// AlertUseCase operaciones de consulta y resolución manual de alertas.
type AlertUseCase struct {
	txRunner  TxRunner
	alertRepo repository.AlertRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(txRunner TxRunner, alertRepo repository.AlertRepository) *AlertUseCase {
	return &AlertUseCase{txRunner: txRunner, alertRepo: alertRepo}
}

// Resolve resuelve manualmente una alerta. Falla con ErrNotFound si no existe
// y con ErrConflict si ya estaba inactiva. Escribe la notificación de cierre
// en la misma transacción.
func (uc *AlertUseCase) Resolve(ctx context.Context, alertID, actor string) (*entity.Alert, error) {
	if alertID == "" {
		return nil, domain.NewValidationError("alert_id", "es requerido")
	}
	var resolved *entity.Alert
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		alert, err := r.Alerts.GetByID(ctx, alertID)
		if err != nil {
			return err
		}
		if alert == nil {
			return domain.ErrNotFound
		}
		if !alert.IsActive {
			return domain.ErrConflict
		}
		now := time.Now()
		if err := r.Alerts.Resolve(ctx, alert.ID, now); err != nil {
			return err
		}
		alert.IsActive = false
		alert.ResolvedAt = &now
		resolved = alert
		return notifyAlertChange(ctx, r, alert.ShopID, "Alerta resuelta", alert.Message, entity.NotificationInfo, now)
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// ListActive lista alertas activas; shopID vacío devuelve todas las tiendas.
func (uc *AlertUseCase) ListActive(ctx context.Context, shopID string, limit, offset int) ([]*entity.Alert, error) {
	return uc.alertRepo.ListActive(ctx, shopID, limit, offset)
}
