package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidmora/shopledger-api/internal/application/dto"
	"github.com/davidmora/shopledger-api/internal/application/ledger"
)

// AlertHandler maneja la consulta y resolución manual de alertas.
type AlertHandler struct {
	uc *ledger.AlertUseCase
}

func NewAlertHandler(uc *ledger.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListActive godoc
// @Summary      Listar alertas activas de la tienda del token
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {object}  dto.AlertListResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListActive(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	return h.listActive(c, shopID)
}

// ListActiveAll godoc
// @Summary      Listar alertas activas de todas las tiendas (solo admin)
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {object}  dto.AlertListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/alerts/all [get]
func (h *AlertHandler) ListActiveAll(c *fiber.Ctx) error {
	return h.listActive(c, "")
}

func (h *AlertHandler) listActive(c *fiber.Ctx, shopID string) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	alerts, err := h.uc.ListActive(c.Context(), shopID, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	items := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, toAlertResponse(a))
	}
	return c.JSON(dto.AlertListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Resolve godoc
// @Summary      Resolver manualmente una alerta activa
// @Description  Idempotencia estricta: resolver una alerta ya inactiva
//
//	devuelve 409.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	alert, err := h.uc.Resolve(c.Context(), c.Params("id"), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toAlertResponse(alert))
}
