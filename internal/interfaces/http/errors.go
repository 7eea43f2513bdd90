package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/domain"
)

// respondError mapea los errores centinela del dominio a HTTP. Un error no
// reconocido es un 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el hospital no tiene permiso sobre el recurso"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrHospitalInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "HOSPITAL_INACTIVO", Message: "el hospital está inactivo en el directorio"})
	case errors.Is(err, domain.ErrSelfClaim):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SELF_CLAIM", Message: "un hospital no puede reclamar su propia oferta"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el recurso no está en un estado que admita la operación"})
	case errors.Is(err, domain.ErrInvalidPin):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PIN_INVALIDO", Message: "PIN de entrega incorrecto"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrConfigMissing):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CONFIG", Message: "catálogo de estados incompleto"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
