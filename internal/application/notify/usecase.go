// Package notify expone la bandeja durable de notificaciones de un hospital.
// La escritura ocurre dentro de las transacciones del motor de intercambio;
// aquí solo se lee y se marca como leída.
package notify

import (
	"context"

	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

// UseCase lecturas y marcado de notificaciones.
type UseCase struct {
	notifRepo repository.NotificationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(notifRepo repository.NotificationRepository) *UseCase {
	return &UseCase{notifRepo: notifRepo}
}

// List lista las notificaciones del hospital, opcionalmente solo no leídas.
func (uc *UseCase) List(_ context.Context, hospitalID string, soloNoLeidas bool, limit, offset int) ([]*entity.Notification, error) {
	if hospitalID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.notifRepo.ListByHospital(hospitalID, soloNoLeidas, limit, offset)
}

// MarkRead marca una notificación como leída. Idempotente: marcar dos veces
// no es un error. Solo el hospital destinatario puede marcarla.
func (uc *UseCase) MarkRead(_ context.Context, id, hospitalID string) error {
	if id == "" || hospitalID == "" {
		return domain.ErrInvalidInput
	}
	return uc.notifRepo.MarkRead(id, hospitalID)
}

// CountUnread cuenta las no leídas del hospital (para el badge del portal).
func (uc *UseCase) CountUnread(_ context.Context, hospitalID string) (int, error) {
	if hospitalID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.notifRepo.CountUnread(hospitalID)
}
