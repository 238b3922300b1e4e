package repository

import (
	"context"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// NotificationRepository define el puerto de las notificaciones por tienda.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, shopID string) error
}
