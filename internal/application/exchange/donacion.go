package exchange

import (
	"context"
	"fmt"

	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
)

// RequestDonation reclama una donación Disponible para el hospital solicitante.
// La transición Disponible → Solicitado es un UPDATE condicionado: si dos
// hospitales compiten por la misma donación, exactamente uno gana y el otro
// recibe ErrInvalidState. Notifica al donante.
func (uc *UseCase) RequestDonation(ctx context.Context, donationID, hospitalID string) error {
	if err := uc.requireActiveHospital(hospitalID); err != nil {
		return err
	}

	var events []entity.NotificationEvent
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		don, err := r.Donations.GetByID(donationID)
		if err != nil {
			return err
		}
		if don == nil {
			return domain.ErrNotFound
		}
		if don.HospitalID == hospitalID {
			return domain.ErrSelfClaim
		}
		if don.Estado != entity.DonationEstadoDisponible {
			return domain.ErrInvalidState
		}

		disponibleID, err := r.Estados.IDByName(entity.EstadoDomainDonacion, entity.DonationEstadoDisponible)
		if err != nil {
			return err
		}
		solicitadoID, err := r.Estados.IDByName(entity.EstadoDomainDonacion, entity.DonationEstadoSolicitado)
		if err != nil {
			return err
		}

		// Punto de exclusión: solo quien observe Disponible logra la transición.
		if err := r.Donations.ClaimIf(don.ID, disponibleID, solicitadoID, hospitalID); err != nil {
			return err
		}

		return notify(r, &entity.Notification{
			HospitalID:     don.HospitalID,
			ActorID:        &hospitalID,
			Titulo:         "Donación solicitada",
			Mensaje:        fmt.Sprintf("Un hospital ha solicitado tu donación %s", don.ID),
			Categoria:      entity.NotifCategoriaDonacion,
			ReferenciaTipo: "donacion",
			ReferenciaID:   don.ID,
		}, &events)
	})
	if err != nil {
		return err
	}

	uc.publishAll(events)
	return nil
}
