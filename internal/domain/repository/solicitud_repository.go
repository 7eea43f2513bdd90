package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// RequestRepository define el puerto de persistencia para Request (DIP).
type RequestRepository interface {
	Create(req *entity.Request) error
	GetByID(id string) (*entity.Request, error)
	ListByPublication(publicationID string) ([]*entity.Request, error)
	ListByHospital(hospitalID string, limit, offset int) ([]*entity.Request, error)
	// DecideIf resuelve la solicitud (Aceptada o Rechazada) solo si sigue
	// Pendiente. ErrNotFound / ErrInvalidState según corresponda.
	DecideIf(id string, expectedEstadoID, newEstadoID int) error
	// UpdateHospitalOrigen estampa el hospital de origen del envío asociado.
	UpdateHospitalOrigen(id, hospitalID string) error
}
