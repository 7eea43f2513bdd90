package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// NotificationRepository define el puerto de persistencia para Notification.
// El registro durable se escribe en la misma transacción que la transición que
// lo origina; el push en tiempo real ocurre después del commit.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	GetByID(id string) (*entity.Notification, error)
	ListByHospital(hospitalID string, soloNoLeidas bool, limit, offset int) ([]*entity.Notification, error)
	// MarkRead marca leída una notificación del hospital dado. Idempotente.
	MarkRead(id, hospitalID string) error
	CountUnread(hospitalID string) (int, error)
}
