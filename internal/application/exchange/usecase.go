// Package exchange implementa el motor de ciclo de vida del intercambio:
// única autoridad para mutar el estado de publicaciones, donaciones,
// solicitudes y envíos. Cada operación corre en una sola transacción
// (leer-verificar-escribir) y, si confirma, difunde sus notificaciones a las
// conexiones vivas vía Broadcaster (mejor esfuerzo, después del commit).
package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

// UseCase es el motor de ciclo de vida del intercambio.
type UseCase struct {
	txRunner     TxRunner
	hospitalRepo repository.HospitalRepository
	medRepo      repository.MedicationRepository
	pubRepo      repository.PublicationRepository
	donRepo      repository.DonationRepository
	reqRepo      repository.RequestRepository
	envRepo      repository.ShipmentRepository
	broadcaster  Broadcaster
	actaPDF      ActaPDFGenerator
	remision     RemisionBuilder
}

// NewUseCase construye el motor con sus puertos. Los repositorios recibidos
// aquí se usan solo para lecturas; toda escritura pasa por el TxRunner.
func NewUseCase(
	txRunner TxRunner,
	hospitalRepo repository.HospitalRepository,
	medRepo repository.MedicationRepository,
	pubRepo repository.PublicationRepository,
	donRepo repository.DonationRepository,
	reqRepo repository.RequestRepository,
	envRepo repository.ShipmentRepository,
	broadcaster Broadcaster,
	actaPDF ActaPDFGenerator,
	remision RemisionBuilder,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		hospitalRepo: hospitalRepo,
		medRepo:      medRepo,
		pubRepo:      pubRepo,
		donRepo:      donRepo,
		reqRepo:      reqRepo,
		envRepo:      envRepo,
		broadcaster:  broadcaster,
		actaPDF:      actaPDF,
		remision:     remision,
	}
}

// requireActiveHospital valida contra el directorio que el hospital exista y
// esté activo antes de permitirle operar.
func (uc *UseCase) requireActiveHospital(hospitalID string) error {
	if hospitalID == "" {
		return domain.ErrInvalidInput
	}
	ok, err := uc.hospitalRepo.Exists(hospitalID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	activo, err := uc.hospitalRepo.IsActive(hospitalID)
	if err != nil {
		return err
	}
	if !activo {
		return domain.ErrHospitalInactive
	}
	return nil
}

// notify persiste la notificación dentro de la transacción y acumula el evento
// push para difundirlo después del commit.
func notify(r TxRepos, n *entity.Notification, events *[]entity.NotificationEvent) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := r.Notifications.Create(n); err != nil {
		return err
	}
	*events = append(*events, entity.EventFromNotification(n))
	return nil
}

// publishAll difunde los eventos acumulados. Solo se llama tras el commit; un
// fallo de push no afecta la operación ya confirmada.
func (uc *UseCase) publishAll(events []entity.NotificationEvent) {
	for _, ev := range events {
		uc.broadcaster.Publish(ev.HospitalID, ev)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Publicaciones y donaciones: alta y lecturas
// ─────────────────────────────────────────────────────────────────────────────

// CreatePublication publica un lote de medicamento en estado Disponible.
func (uc *UseCase) CreatePublication(ctx context.Context, hospitalID string, in dto.CreatePublicationRequest) (*entity.Publication, error) {
	if err := uc.requireActiveHospital(hospitalID); err != nil {
		return nil, err
	}
	if !in.Cantidad.IsPositive() || in.Unidad == "" || !in.FechaVencimiento.After(time.Now()) {
		return nil, domain.ErrInvalidInput
	}
	med, err := uc.medRepo.GetByID(in.MedicationID)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	pub := &entity.Publication{
		ID:               uuid.New().String(),
		HospitalID:       hospitalID,
		MedicationID:     med.ID,
		Cantidad:         in.Cantidad,
		Unidad:           in.Unidad,
		FechaVencimiento: in.FechaVencimiento,
		Estado:           entity.PublicationEstadoDisponible,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if _, err := r.Estados.IDByName(entity.EstadoDomainPublicacion, entity.PublicationEstadoDisponible); err != nil {
			return err
		}
		return r.Publications.Create(pub)
	})
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// CreateDonation publica una donación en estado Disponible.
func (uc *UseCase) CreateDonation(ctx context.Context, hospitalID string, in dto.CreateDonationRequest) (*entity.Donation, error) {
	if err := uc.requireActiveHospital(hospitalID); err != nil {
		return nil, err
	}
	if !in.Cantidad.IsPositive() || in.Unidad == "" || !in.FechaVencimiento.After(time.Now()) {
		return nil, domain.ErrInvalidInput
	}
	med, err := uc.medRepo.GetByID(in.MedicationID)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	don := &entity.Donation{
		ID:               uuid.New().String(),
		HospitalID:       hospitalID,
		MedicationID:     med.ID,
		Cantidad:         in.Cantidad,
		Unidad:           in.Unidad,
		FechaVencimiento: in.FechaVencimiento,
		Estado:           entity.DonationEstadoDisponible,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if _, err := r.Estados.IDByName(entity.EstadoDomainDonacion, entity.DonationEstadoDisponible); err != nil {
			return err
		}
		return r.Donations.Create(don)
	})
	if err != nil {
		return nil, err
	}
	return don, nil
}

// ListPublications lista publicaciones, opcionalmente filtradas por estado.
func (uc *UseCase) ListPublications(_ context.Context, estado string, limit, offset int) ([]*entity.Publication, error) {
	return uc.pubRepo.List(estado, limit, offset)
}

// GetPublication lee una publicación por id.
func (uc *UseCase) GetPublication(_ context.Context, id string) (*entity.Publication, error) {
	pub, err := uc.pubRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, domain.ErrNotFound
	}
	return pub, nil
}

// ListDonations lista donaciones, opcionalmente filtradas por estado.
func (uc *UseCase) ListDonations(_ context.Context, estado string, limit, offset int) ([]*entity.Donation, error) {
	return uc.donRepo.List(estado, limit, offset)
}

// GetDonation lee una donación por id.
func (uc *UseCase) GetDonation(_ context.Context, id string) (*entity.Donation, error) {
	don, err := uc.donRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if don == nil {
		return nil, domain.ErrNotFound
	}
	return don, nil
}
