package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
)

// RequestHandler maneja las solicitudes sobre publicaciones (protegido).
type RequestHandler struct {
	uc *exchange.UseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *exchange.UseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una solicitud sobre una publicación
// @Description  El payload depende del tipo: compra exige precio_propuesto;
//
//	intercambio exige med_ofrecido y cantidad_ofrecida; prestamo
//	exige fecha_devolucion futura.
//
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "publication_id, tipo y payload del tipo"
// @Success      201   {object}  entity.Request
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.CreateRequest(c.Context(), hospitalID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// Decide godoc
// @Summary      Aceptar o rechazar una solicitud pendiente
// @Description  Solo el dueño de la publicación decide. Aceptar concreta la
//
//	publicación y la solicitud en la misma transacción.
//
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.DecideRequestRequest  true  "decision: aceptar | rechazar"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/decision [post]
func (h *RequestHandler) Decide(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.DecideRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.DecideRequest(c.Context(), c.Params("id"), hospitalID, in.Decision); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "decisión registrada"})
}

// CreatePriority godoc
// @Summary      Crear una solicitud prioritaria con pago
// @Description  Solicitud + envío expedito + pago en una sola unidad atómica:
//
//	o queda todo confirmado o no queda nada.
//
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePriorityRequest  true  "solicitud, pago y datos del envío"
// @Success      201   {object}  exchange.PriorityResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/prioritaria [post]
func (h *RequestHandler) CreatePriority(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var in dto.CreatePriorityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.CreatePriorityRequestWithPayment(c.Context(), hospitalID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
