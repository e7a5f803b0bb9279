package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
)

// statusFor traduce el tipo de error de dominio a código HTTP.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidIdentity, domain.KindMissingField, domain.KindInvalidAmount:
		return fiber.StatusBadRequest
	case domain.KindRecordNotFound:
		return fiber.StatusNotFound
	case domain.KindInsufficientStock, domain.KindInvalidState:
		return fiber.StatusConflict
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde {code, message}. Los fallos de almacenamiento no exponen el detalle del driver.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	msg := err.Error()
	if kind == domain.KindStorageFailure {
		msg = "error interno de almacenamiento"
	}
	return c.Status(statusFor(kind)).JSON(dto.ErrorResponse{Code: string(kind), Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
