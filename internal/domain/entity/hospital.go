package entity

import "time"

// Hospital representa un hospital inscrito en el portal de intercambio.
// Es la unidad de partición: toda publicación, donación, solicitud, envío y
// notificación pertenece a un hospital.
type Hospital struct {
	ID        string
	Nombre    string
	NIT       string
	Ciudad    string
	Direccion string
	Activo    bool
	CreatedAt time.Time
}
