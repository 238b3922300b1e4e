package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidmora/shopledger-api/internal/application/dto"
	"github.com/davidmora/shopledger-api/internal/application/ledger"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro mayor (protegido).
type LedgerHandler struct {
	uc *ledger.UpdateCoordinator
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UpdateCoordinator) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// ApplySingle godoc
// @Summary      Aplicar un cambio de cantidad
// @Description  Fija la cantidad absoluta de un recurso en la tienda del token.
//
//	En una sola transacción: balance, entrada de auditoría y
//	reevaluación de alertas.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SingleUpdateRequest  true  "resource_id, new_quantity, reason"
// @Success      200   {object}  dto.UpdateResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/updates [post]
func (h *LedgerHandler) ApplySingle(c *fiber.Ctx) error {
	shopID, userID := GetShopID(c), GetUserID(c)
	if shopID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SingleUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.ApplySingle(c.Context(), ledger.UpdateInput{
		ShopID:      shopID,
		ResourceID:  in.ResourceID,
		NewQuantity: in.NewQuantity,
		Reason:      in.Reason,
		Actor:       userID,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toUpdateResultResponse(result))
}

// ApplyBatch godoc
// @Summary      Aplicar un lote de cambios (atómico)
// @Description  El lote entra completo o no entra: el primer fallo revierte
//
//	todos los cambios y se reporta con su índice (base 0).
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchUpdateRequest  true  "updates"
// @Success      200   {object}  dto.BatchOutcomeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/batch [post]
func (h *LedgerHandler) ApplyBatch(c *fiber.Ctx) error {
	shopID, userID := GetShopID(c), GetUserID(c)
	if shopID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BatchUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	updates := make([]ledger.UpdateInput, 0, len(in.Updates))
	for _, u := range in.Updates {
		updates = append(updates, ledger.UpdateInput{
			ResourceID:  u.ResourceID,
			NewQuantity: u.NewQuantity,
			Reason:      u.Reason,
		})
	}
	outcome, err := h.uc.ApplyBatch(c.Context(), shopID, updates, userID)
	if err != nil {
		return errorJSON(c, err)
	}
	results := make([]dto.UpdateResultResponse, 0, len(outcome.Results))
	for i := range outcome.Results {
		results = append(results, toUpdateResultResponse(&outcome.Results[i]))
	}
	return c.JSON(dto.BatchOutcomeResponse{Results: results})
}

// GetBalance godoc
// @Summary      Balance actual de un recurso en la tienda del token
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        resourceID  path  string  true  "ID del recurso"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/balances/{resourceID} [get]
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	balance, err := h.uc.GetBalance(c.Context(), shopID, c.Params("resourceID"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// ListBalances godoc
// @Summary      Balances de la tienda del token
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/ledger/balances [get]
func (h *LedgerHandler) ListBalances(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	balances, err := h.uc.ListBalances(c.Context(), shopID, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, toBalanceResponse(b))
	}
	return c.JSON(items)
}

// History godoc
// @Summary      Historial de cambios de un recurso en la tienda del token
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        resourceID  path   string  true   "ID del recurso"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/history/{resourceID} [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	entries, err := h.uc.ListHistory(c.Context(), shopID, c.Params("resourceID"), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toAuditEntryResponse(e))
	}
	return c.JSON(dto.HistoryResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ShopID:        b.ShopID,
		ResourceID:    b.ResourceID,
		Quantity:      b.Quantity,
		LastUpdated:   b.LastUpdated,
		LastUpdatedBy: b.LastUpdatedBy,
	}
}

func toAuditEntryResponse(e *entity.AuditEntry) dto.AuditEntryResponse {
	return dto.AuditEntryResponse{
		ID:               e.ID,
		ShopID:           e.ShopID,
		ResourceID:       e.ResourceID,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		Delta:            e.Delta,
		ChangeType:       e.ChangeType,
		Reason:           e.Reason,
		UpdatedBy:        e.UpdatedBy,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:         a.ID,
		ShopID:     a.ShopID,
		ResourceID: a.ResourceID,
		AlertType:  a.AlertType,
		Message:    a.Message,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
		ResolvedAt: a.ResolvedAt,
	}
}

func toUpdateResultResponse(r *ledger.UpdateResult) dto.UpdateResultResponse {
	resp := dto.UpdateResultResponse{
		Balance:     toBalanceResponse(r.Balance),
		Delta:       r.Entry.Delta,
		ChangeType:  r.Entry.ChangeType,
		AlertChange: r.AlertChange,
	}
	if r.AlertChange != "" && r.Alert != nil {
		alert := toAlertResponse(r.Alert)
		resp.Alert = &alert
	}
	return resp
}
