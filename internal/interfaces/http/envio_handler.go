package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
)

// ShipmentHandler maneja los envíos (protegido).
type ShipmentHandler struct {
	uc *exchange.UseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *exchange.UseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear el envío de una solicitud aceptada
// @Description  Solo el hospital que despacha (dueño de la publicación) puede
//
//	crearlo. El envío nace en Empaque.
//
// @Tags         envios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "request_id, transportadora, fechas"
// @Success      201   {object}  entity.Shipment
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/envios [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	env, err := h.uc.CreateShipment(c.Context(), hospitalID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}

// Advance godoc
// @Summary      Avanzar el envío a su siguiente estado
// @Description  Solo el hospital emisor avanza. Al entrar en Distribucion se
//
//	genera el PIN de entrega; pasar a Entregado exige el PIN.
//
// @Tags         envios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del envío"
// @Param        body  body  dto.AdvanceShipmentRequest  false  "pin (solo para Distribucion → Entregado)"
// @Success      200   {object}  entity.Shipment
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/envios/{id}/avanzar [post]
func (h *ShipmentHandler) Advance(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.AdvanceShipmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	env, err := h.uc.AdvanceShipment(c.Context(), c.Params("id"), hospitalID, in.Pin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(env)
}

// GetByID godoc
// @Summary      Consultar un envío
// @Description  Solo las partes del envío pueden verlo. El PIN de entrega solo
//
//	se revela al hospital receptor.
//
// @Tags         envios
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/envios/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	resp, err := h.uc.GetShipmentFor(c.Context(), c.Params("id"), hospitalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ActaPDF godoc
// @Summary      Descargar el acta de entrega en PDF
// @Tags         envios
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/envios/{id}/acta [get]
func (h *ShipmentHandler) ActaPDF(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	pdfBytes, err := h.uc.GenerateActaEntrega(c.Context(), c.Params("id"), hospitalID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="acta-entrega.pdf"`)
	return c.Send(pdfBytes)
}

// Remision godoc
// @Summary      Descargar la remisión XML del envío
// @Description  Incluye la huella SHA-384 del documento canonicalizado en el
//
//	header X-Remision-Digest para verificación.
//
// @Tags         envios
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {string}  string
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/envios/{id}/remision [get]
func (h *ShipmentHandler) Remision(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	xmlDoc, digest, err := h.uc.BuildRemision(c.Context(), c.Params("id"), hospitalID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set("X-Remision-Digest", digest)
	return c.Send(xmlDoc)
}
