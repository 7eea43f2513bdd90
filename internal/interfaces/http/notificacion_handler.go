package http

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/application/notify"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/infrastructure/broadcast"
)

// NotificationHandler maneja la bandeja de notificaciones y el stream en vivo
// (protegido).
type NotificationHandler struct {
	uc  *notify.UseCase
	hub *broadcast.Hub
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notify.UseCase, hub *broadcast.Hub) *NotificationHandler {
	return &NotificationHandler{uc: uc, hub: hub}
}

// List godoc
// @Summary      Listar notificaciones del hospital
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Param        no_leidas  query  bool  false  "Solo no leídas"
// @Success      200  {array}  entity.Notification
// @Router       /api/notificaciones [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.uc.List(c.Context(), hospitalID, c.QueryBool("no_leidas"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "notificaciones": list})
}

// MarkRead godoc
// @Summary      Marcar una notificación como leída
// @Description  Idempotente: marcar dos veces no es error.
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la notificación"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notificaciones/{id}/leer [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	if err := h.uc.MarkRead(c.Context(), c.Params("id"), hospitalID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "notificación leída"})
}

// CountUnread godoc
// @Summary      Contar notificaciones no leídas
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/notificaciones/no-leidas/count [get]
func (h *NotificationHandler) CountUnread(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	count, err := h.uc.CountUnread(c.Context(), hospitalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"no_leidas": count})
}

// Stream godoc
// @Summary      Stream de notificaciones en vivo (SSE)
// @Description  Emite conexion_establecida al abrir, heartbeats periódicos y
//
//	un evento por cada notificación dirigida al hospital del token.
//
// @Tags         notificaciones
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200  {string}  string
// @Router       /api/notificaciones/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	hospitalID := GetHospitalID(c)
	if hospitalID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	conn := h.hub.Subscribe(hospitalID)
	heartbeat := h.hub.Heartbeat()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer conn.Close()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-conn.Events:
				if !ok {
					return
				}
				if err := writeSSE(w, ev); err != nil {
					return
				}
			case <-ticker.C:
				beat := entity.NotificationEvent{
					Tipo:       entity.EventTipoHeartbeat,
					HospitalID: hospitalID,
					CreatedAt:  time.Now().UTC(),
				}
				if err := writeSSE(w, beat); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

// writeSSE serializa un evento en formato Server-Sent Events y lo vuelca al
// cliente. Un error de Flush significa cliente desconectado.
func writeSSE(w *bufio.Writer, ev entity.NotificationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: " + ev.Tipo + "\ndata: " + string(payload) + "\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
