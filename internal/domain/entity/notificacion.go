package entity

import "time"

// Categorías de notificación.
const (
	NotifCategoriaSolicitud = "solicitud"
	NotifCategoriaDonacion  = "donacion"
	NotifCategoriaPago      = "pago"
)

// Tipos de evento del canal push.
const (
	EventTipoConexion     = "conexion_establecida"
	EventTipoHeartbeat    = "heartbeat"
	EventTipoNotificacion = "notificacion"
)

// Notification es el registro durable de un aviso a un hospital, escrito en la
// misma transacción que la transición que lo origina. El push en tiempo real
// es solo un aviso de mejor esfuerzo; este registro es la fuente de verdad.
type Notification struct {
	ID             string
	HospitalID     string  // hospital destinatario
	ActorID        *string // hospital que originó la acción, si aplica
	Titulo         string
	Mensaje        string
	Categoria      string
	ReferenciaTipo string // publicacion | donacion | solicitud | envio | pago
	ReferenciaID   string
	Leida          bool
	CreatedAt      time.Time
}

// NotificationEvent es la carga efímera que viaja por el canal push hacia las
// conexiones vivas del hospital destinatario.
type NotificationEvent struct {
	Tipo           string    `json:"tipo"`
	NotificationID string    `json:"notificacion_id,omitempty"`
	Titulo         string    `json:"titulo,omitempty"`
	Mensaje        string    `json:"mensaje,omitempty"`
	Categoria      string    `json:"categoria,omitempty"`
	HospitalID     string    `json:"hospital_id"`
	ReferenciaTipo string    `json:"referencia_tipo,omitempty"`
	ReferenciaID   string    `json:"referencia_id,omitempty"`
	Leida          bool      `json:"leida"`
	CreatedAt      time.Time `json:"created_at"`
}

// EventFromNotification arma el evento push a partir del registro durable.
func EventFromNotification(n *Notification) NotificationEvent {
	return NotificationEvent{
		Tipo:           EventTipoNotificacion,
		NotificationID: n.ID,
		Titulo:         n.Titulo,
		Mensaje:        n.Mensaje,
		Categoria:      n.Categoria,
		HospitalID:     n.HospitalID,
		ReferenciaTipo: n.ReferenciaTipo,
		ReferenciaID:   n.ReferenciaID,
		Leida:          n.Leida,
		CreatedAt:      n.CreatedAt,
	}
}
