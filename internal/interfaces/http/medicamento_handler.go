package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

// MedicationHandler lecturas sobre el catálogo de medicamentos (protegido).
type MedicationHandler struct {
	repo repository.MedicationRepository
}

// NewMedicationHandler construye el handler.
func NewMedicationHandler(repo repository.MedicationRepository) *MedicationHandler {
	return &MedicationHandler{repo: repo}
}

// List godoc
// @Summary      Listar el catálogo de medicamentos
// @Tags         medicamentos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Medication
// @Router       /api/medicamentos [get]
func (h *MedicationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	meds, err := h.repo.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(meds), "medicamentos": meds})
}

// GetByID godoc
// @Summary      Consultar un medicamento
// @Tags         medicamentos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del medicamento"
// @Success      200  {object}  entity.Medication
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicamentos/{id} [get]
func (h *MedicationHandler) GetByID(c *fiber.Ctx) error {
	med, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if med == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
	}
	return c.JSON(med)
}
