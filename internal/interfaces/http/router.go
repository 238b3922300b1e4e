package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidmora/shopledger-api/internal/application/catalog"
	"github.com/davidmora/shopledger-api/internal/application/ledger"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ResourceUC     *catalog.ResourceUseCase
	Coordinator    *ledger.UpdateCoordinator
	AlertUC        *ledger.AlertUseCase
	NotificationUC *ledger.NotificationUseCase
	ShopRepo       repository.ShopRepository
	JWTSecret      string
}

// Router registra las rutas de la API. Todas las rutas de negocio requieren
// Bearer Token; las mutaciones de catálogo y las vistas entre tiendas exigen
// además el rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(RoleAdmin)

	// Shops (solo lectura)
	shops := protected.Group("/shops")
	shopHandler := NewShopHandler(deps.ShopRepo)
	shops.Get("/", shopHandler.List)
	shops.Get("/:id", shopHandler.GetByID)

	// Catálogo de recursos: lectura para todos, mutación solo admin
	resources := protected.Group("/resources")
	resourceHandler := NewResourceHandler(deps.ResourceUC)
	resources.Get("/", resourceHandler.List)
	resources.Get("/:id", resourceHandler.GetByID)
	resources.Post("/", admin, resourceHandler.Create)
	resources.Put("/:id", admin, resourceHandler.Update)
	resources.Delete("/:id", admin, resourceHandler.Delete)

	// Libro mayor
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Coordinator)
	ledgerGroup.Post("/updates", ledgerHandler.ApplySingle)
	ledgerGroup.Post("/batch", admin, ledgerHandler.ApplyBatch)
	ledgerGroup.Get("/balances", ledgerHandler.ListBalances)
	ledgerGroup.Get("/balances/:resourceID", ledgerHandler.GetBalance)
	ledgerGroup.Get("/history/:resourceID", ledgerHandler.History)

	// Alertas
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/", alertHandler.ListActive)
	alerts.Get("/all", admin, alertHandler.ListActiveAll)
	alerts.Post("/:id/resolve", alertHandler.Resolve)

	// Avisos
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
}
