package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/davidmora/shopledger-api/internal/application/dto"
	"github.com/davidmora/shopledger-api/internal/domain"
)

// errorJSON traduce errores de dominio a respuestas HTTP. ValidationError y
// BatchError aportan el campo y el índice ofensivos para que el cliente pueda
// renderizar un mensaje preciso.
func errorJSON(c *fiber.Ctx, err error) error {
	resp := dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	status := fiber.StatusInternalServerError

	var vErr *domain.ValidationError
	var bErr *domain.BatchError
	if errors.As(err, &vErr) {
		resp.Field = vErr.Field
	}
	if errors.As(err, &bErr) {
		idx := bErr.Index
		resp.Index = &idx
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, resp.Code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, resp.Code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, resp.Code = fiber.StatusUnprocessableEntity, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrDuplicate):
		status, resp.Code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, resp.Code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrConcurrency):
		status, resp.Code = fiber.StatusConflict, "CONCURRENCY"
	case errors.Is(err, domain.ErrForbidden):
		status, resp.Code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, resp.Code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	return c.Status(status).JSON(resp)
}
