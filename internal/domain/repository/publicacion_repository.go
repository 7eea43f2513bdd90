package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// PublicationRepository define el puerto de persistencia para Publication (DIP).
type PublicationRepository interface {
	Create(pub *entity.Publication) error
	GetByID(id string) (*entity.Publication, error)
	List(estado string, limit, offset int) ([]*entity.Publication, error)
	ListByHospital(hospitalID string, limit, offset int) ([]*entity.Publication, error)
	// UpdateEstadoIf es la primitiva de atomicidad del motor de ciclo de vida:
	// UPDATE condicionado al estado esperado. Retorna domain.ErrNotFound si el
	// id no existe y domain.ErrInvalidState si existe pero el estado ya cambió
	// (carrera perdida).
	UpdateEstadoIf(id string, expectedEstadoID, newEstadoID int) error
}
