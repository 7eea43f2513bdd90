package repository

import (
	"time"

	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
)

// ShipmentRepository define el puerto de persistencia para Shipment (DIP).
type ShipmentRepository interface {
	Create(env *entity.Shipment) error
	GetByID(id string) (*entity.Shipment, error)
	GetBySource(sourceType, sourceID string) (*entity.Shipment, error)
	// AdvanceIf avanza el envío al estado nuevo solo si el estado actual es el
	// esperado; pin y fechaEntrega se escriben cuando la transición los aporta
	// (pin al entrar en Distribucion, fechaEntrega al llegar a Entregado).
	// ErrNotFound / ErrInvalidState según corresponda.
	AdvanceIf(id string, expectedEstadoID, newEstadoID int, pin *string, fechaEntrega *time.Time) error
}
