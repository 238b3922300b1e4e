package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davidmora/shopledger-api/internal/application/dto"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// ShopHandler expone las tiendas en modo solo lectura.
type ShopHandler struct {
	shops repository.ShopRepository
}

func NewShopHandler(shops repository.ShopRepository) *ShopHandler {
	return &ShopHandler{shops: shops}
}

type shopResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// List godoc
// @Summary      Listar tiendas
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  shopResponse
// @Router       /api/shops [get]
func (h *ShopHandler) List(c *fiber.Ctx) error {
	shops, err := h.shops.List(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	items := make([]shopResponse, 0, len(shops))
	for _, s := range shops {
		items = append(items, shopResponse{ID: s.ID, Name: s.Name, Location: s.Location, CreatedAt: s.CreatedAt})
	}
	return c.JSON(items)
}

// GetByID godoc
// @Summary      Obtener una tienda por ID
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {object}  shopResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shops/{id} [get]
func (h *ShopHandler) GetByID(c *fiber.Ctx) error {
	shop, err := h.shops.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	if shop == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tienda no encontrada"})
	}
	return c.JSON(shopResponse{ID: shop.ID, Name: shop.Name, Location: shop.Location, CreatedAt: shop.CreatedAt})
}
