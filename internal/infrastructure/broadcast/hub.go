// Package broadcast implementa el canal push en proceso: un hub que reparte
// eventos de notificación a las conexiones vivas de cada hospital. La entrega
// es de mejor esfuerzo; el registro durable en base de datos es la fuente de
// verdad.
package broadcast

import (
	"sync"
	"time"

	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/pkg/logger"
)

var _ exchange.Broadcaster = (*Hub)(nil)

// Conn es una suscripción viva de un hospital. Los eventos llegan por Events;
// el canal se cierra al desuscribir.
type Conn struct {
	HospitalID string
	Events     chan entity.NotificationEvent

	once sync.Once
	hub  *Hub
}

// Close desuscribe la conexión del hub. Idempotente.
func (c *Conn) Close() {
	c.once.Do(func() {
		c.hub.unsubscribe(c)
		close(c.Events)
	})
}

// Hub multiplexa eventos por hospital. Una conexión lenta (buffer lleno)
// pierde el evento en vez de bloquear a las demás.
type Hub struct {
	mu         sync.RWMutex
	conns      map[string]map[*Conn]struct{}
	bufferSize int
	heartbeat  time.Duration
	log        *logger.Logger
}

// NewHub construye el hub. bufferSize es la capacidad del canal de cada
// conexión; heartbeat el intervalo de latidos que emite cada stream.
func NewHub(bufferSize int, heartbeat time.Duration, log *logger.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Hub{
		conns:      make(map[string]map[*Conn]struct{}),
		bufferSize: bufferSize,
		heartbeat:  heartbeat,
		log:        log,
	}
}

// Heartbeat retorna el intervalo de latidos configurado.
func (h *Hub) Heartbeat() time.Duration {
	return h.heartbeat
}

// Subscribe registra una conexión para el hospital y encola de inmediato el
// evento de conexión establecida.
func (h *Hub) Subscribe(hospitalID string) *Conn {
	c := &Conn{
		HospitalID: hospitalID,
		Events:     make(chan entity.NotificationEvent, h.bufferSize),
		hub:        h,
	}

	h.mu.Lock()
	set, ok := h.conns[hospitalID]
	if !ok {
		set = make(map[*Conn]struct{})
		h.conns[hospitalID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	c.Events <- entity.NotificationEvent{
		Tipo:       entity.EventTipoConexion,
		HospitalID: hospitalID,
		CreatedAt:  time.Now().UTC(),
	}
	return c
}

func (h *Hub) unsubscribe(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[c.HospitalID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, c.HospitalID)
		}
	}
}

// Publish reparte el evento a todas las conexiones vivas del hospital. Envío
// no bloqueante: si el buffer de una conexión está lleno, esa conexión pierde
// el evento y las demás lo reciben igual.
func (h *Hub) Publish(hospitalID string, ev entity.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[hospitalID] {
		select {
		case c.Events <- ev:
		default:
			h.log.Warn().
				Str("hospital_id", hospitalID).
				Str("tipo", ev.Tipo).
				Msg("conexión lenta, evento descartado")
		}
	}
}

// ConnCount retorna el número de conexiones vivas del hospital.
func (h *Hub) ConnCount(hospitalID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[hospitalID])
}
