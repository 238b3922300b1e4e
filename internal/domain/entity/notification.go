package entity

import "time"

// Tipos de notificación.
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
	NotificationSuccess = "success"
)

// Notification representa un aviso visible para una tienda (superficie de
// notificaciones). El motor de ledger las escribe en la misma transacción
// que la transición de alerta que las origina.
type Notification struct {
	ID        string
	ShopID    string
	Title     string
	Message   string
	Type      string
	IsRead    bool
	CreatedAt time.Time
}
