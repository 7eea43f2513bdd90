package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// DonationRepository define el puerto de persistencia para Donation (DIP).
type DonationRepository interface {
	Create(don *entity.Donation) error
	GetByID(id string) (*entity.Donation, error)
	List(estado string, limit, offset int) ([]*entity.Donation, error)
	ListByHospital(hospitalID string, limit, offset int) ([]*entity.Donation, error)
	// ClaimIf transiciona la donación al estado nuevo y estampa el hospital
	// receptor, solo si el estado actual es el esperado. Misma semántica de
	// errores que UpdateEstadoIf (ErrNotFound / ErrInvalidState).
	ClaimIf(id string, expectedEstadoID, newEstadoID int, hospitalOrigenID string) error
	// UpdateEstadoIf transición condicionada sin estampar receptor
	// (Completado, Cancelado).
	UpdateEstadoIf(id string, expectedEstadoID, newEstadoID int) error
}
