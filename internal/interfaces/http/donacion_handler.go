package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
)

// DonationHandler maneja las donaciones de medicamentos (protegido).
type DonationHandler struct {
	uc *exchange.UseCase
}

// NewDonationHandler construye el handler.
func NewDonationHandler(uc *exchange.UseCase) *DonationHandler {
	return &DonationHandler{uc: uc}
}

// Create godoc
// @Summary      Publicar una donación
// @Tags         donaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDonationRequest  true  "medication_id, cantidad, unidad, fecha_vencimiento"
// @Success      201   {object}  entity.Donation
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/donaciones [post]
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.CreateDonationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	don, err := h.uc.CreateDonation(c.Context(), hospitalID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(don)
}

// List godoc
// @Summary      Listar donaciones
// @Tags         donaciones
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Filtrar por estado (Disponible, Solicitado, Completado, Cancelado)"
// @Success      200  {array}  entity.Donation
// @Router       /api/donaciones [get]
func (h *DonationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	dons, err := h.uc.ListDonations(c.Context(), c.Query("estado"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(dons), "donaciones": dons})
}

// GetByID godoc
// @Summary      Consultar una donación
// @Tags         donaciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la donación"
// @Success      200  {object}  entity.Donation
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/donaciones/{id} [get]
func (h *DonationHandler) GetByID(c *fiber.Ctx) error {
	don, err := h.uc.GetDonation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(don)
}

// Claim godoc
// @Summary      Reclamar una donación disponible
// @Description  Primer hospital en reclamar gana; la donación pasa a Solicitado
//
//	y se notifica al hospital donante.
//
// @Tags         donaciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la donación"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/donaciones/{id}/reclamar [post]
func (h *DonationHandler) Claim(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	if err := h.uc.RequestDonation(c.Context(), c.Params("id"), hospitalID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "donación reclamada"})
}

// CreateShipment godoc
// @Summary      Crear el envío de una donación reclamada
// @Tags         donaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la donación"
// @Param        body  body  dto.CreateShipmentRequest  true  "transportadora, fecha_recogida, fecha_estimada_entrega"
// @Success      201   {object}  entity.Shipment
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/donaciones/{id}/envio [post]
func (h *DonationHandler) CreateShipment(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	env, err := h.uc.CreateDonationShipment(c.Context(), hospitalID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}
