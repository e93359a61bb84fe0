package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. El mensaje es el único
// texto visible para el usuario.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrBackendUnavailable):
		status, code = fiber.StatusBadGateway, "BACKEND_UNAVAILABLE"
	case errors.Is(err, domain.ErrValidationGate):
		status, code = fiber.StatusUnprocessableEntity, "VALIDATION_GATE"
	case errors.Is(err, domain.ErrExceedsAvailable):
		status, code = fiber.StatusUnprocessableEntity, "EXCEEDS_AVAILABLE"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrIncompleteProductRef):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalidID(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: name + " inválido"})
}
