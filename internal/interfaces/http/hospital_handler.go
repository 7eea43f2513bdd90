package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

// HospitalHandler lecturas sobre el directorio de hospitales (protegido).
type HospitalHandler struct {
	repo repository.HospitalRepository
}

// NewHospitalHandler construye el handler.
func NewHospitalHandler(repo repository.HospitalRepository) *HospitalHandler {
	return &HospitalHandler{repo: repo}
}

// List godoc
// @Summary      Listar hospitales del directorio
// @Tags         hospitales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Hospital
// @Router       /api/hospitales [get]
func (h *HospitalHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	hospitales, err := h.repo.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(hospitales), "hospitales": hospitales})
}

// GetByID godoc
// @Summary      Consultar un hospital
// @Tags         hospitales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del hospital"
// @Success      200  {object}  entity.Hospital
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/hospitales/{id} [get]
func (h *HospitalHandler) GetByID(c *fiber.Ctx) error {
	hospital, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if hospital == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "hospital no encontrado"})
	}
	return c.JSON(hospital)
}
