package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
)

// PublicationHandler maneja las publicaciones de medicamentos (protegido).
type PublicationHandler struct {
	uc *exchange.UseCase
}

// NewPublicationHandler construye el handler.
func NewPublicationHandler(uc *exchange.UseCase) *PublicationHandler {
	return &PublicationHandler{uc: uc}
}

// Create godoc
// @Summary      Publicar un lote de medicamento
// @Tags         publicaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePublicationRequest  true  "medication_id, cantidad, unidad, fecha_vencimiento"
// @Success      201   {object}  entity.Publication
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/publicaciones [post]
func (h *PublicationHandler) Create(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.CreatePublicationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pub, err := h.uc.CreatePublication(c.Context(), hospitalID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pub)
}

// List godoc
// @Summary      Listar publicaciones
// @Tags         publicaciones
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Filtrar por estado (Disponible, Solicitado, Concretado)"
// @Success      200  {array}  entity.Publication
// @Router       /api/publicaciones [get]
func (h *PublicationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	pubs, err := h.uc.ListPublications(c.Context(), c.Query("estado"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(pubs), "publicaciones": pubs})
}

// GetByID godoc
// @Summary      Consultar una publicación
// @Tags         publicaciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la publicación"
// @Success      200  {object}  entity.Publication
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/publicaciones/{id} [get]
func (h *PublicationHandler) GetByID(c *fiber.Ctx) error {
	pub, err := h.uc.GetPublication(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pub)
}
