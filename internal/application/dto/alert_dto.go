package dto

import "time"

// AlertResponse representa una alerta en respuestas HTTP.
type AlertResponse struct {
	ID         string     `json:"id"`
	ShopID     string     `json:"shop_id"`
	ResourceID string     `json:"resource_id"`
	AlertType  string     `json:"alert_type"`
	Message    string     `json:"message"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// AlertListResponse listado de alertas activas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// NotificationResponse un aviso de la tienda.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
