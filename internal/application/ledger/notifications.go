package ledger

import (
	"context"

	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// NotificationUseCase lectura de la superficie de notificaciones por tienda.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// ListByShop lista las notificaciones de una tienda, más reciente primero.
func (uc *NotificationUseCase) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Notification, error) {
	if shopID == "" {
		return nil, domain.NewValidationError("shop_id", "es requerido")
	}
	return uc.repo.ListByShop(ctx, shopID, limit, offset)
}

// MarkRead marca una notificación de la tienda como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, shopID string) error {
	if id == "" {
		return domain.NewValidationError("id", "es requerido")
	}
	return uc.repo.MarkRead(ctx, id, shopID)
}
