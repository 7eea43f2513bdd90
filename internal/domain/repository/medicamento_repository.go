package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// MedicationRepository puerto de solo lectura sobre el catálogo de medicamentos.
type MedicationRepository interface {
	GetByID(id string) (*entity.Medication, error)
	GetByCUM(cum string) (*entity.Medication, error)
	List(limit, offset int) ([]*entity.Medication, error)
}
