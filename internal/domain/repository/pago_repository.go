package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// PaymentRepository define el puerto de persistencia para Payment (DIP).
// Los pagos son inmutables una vez creados.
type PaymentRepository interface {
	Create(pago *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	GetByRequestID(requestID string) (*entity.Payment, error)
}
