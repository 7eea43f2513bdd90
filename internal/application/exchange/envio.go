package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	domenvio "github.com/intercambiomed/intercambio-api/internal/domain/envio"
)

// shipmentSource lectura del respaldo de un envío (solicitud o donación) para
// resolver roles y datos del medicamento.
type shipmentSource struct {
	roles entity.ShipmentRoles
	req   *entity.Request
	don   *entity.Donation
}

// resolveSource examina la variante de respaldo del envío y resuelve los
// roles emisor/receptor. getReq/getDon abstraen el origen de lectura (pool o
// repos de la transacción en curso).
func resolveSource(
	env *entity.Shipment,
	getReq func(id string) (*entity.Request, error),
	getDon func(id string) (*entity.Donation, error),
) (*shipmentSource, error) {
	switch env.SourceType {
	case entity.ShipmentSourceSolicitud:
		req, err := getReq(env.SourceID)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, domain.ErrNotFound
		}
		return &shipmentSource{roles: entity.RolesFromRequest(req), req: req}, nil
	case entity.ShipmentSourceDonacion:
		don, err := getDon(env.SourceID)
		if err != nil {
			return nil, err
		}
		if don == nil {
			return nil, domain.ErrNotFound
		}
		return &shipmentSource{roles: entity.RolesFromDonation(don), don: don}, nil
	}
	return nil, domain.ErrInvalidState
}

// CreateShipment crea el envío de una solicitud aceptada. Solo el hospital
// que despacha (el dueño de la publicación) puede crearlo. Estampa el
// hospital de origen en la solicitud y notifica al hospital solicitante.
func (uc *UseCase) CreateShipment(ctx context.Context, callerHospitalID string, in dto.CreateShipmentRequest) (*entity.Shipment, error) {
	if err := uc.requireActiveHospital(callerHospitalID); err != nil {
		return nil, err
	}
	if in.Transportadora == "" {
		return nil, domain.ErrInvalidInput
	}

	var env *entity.Shipment
	var events []entity.NotificationEvent
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		req, err := r.Requests.GetByID(in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.HospitalDestinoID != callerHospitalID {
			return domain.ErrUnauthorized
		}
		if req.Estado != entity.RequestEstadoAceptada {
			return domain.ErrInvalidState
		}
		if existente, err := r.Shipments.GetBySource(entity.ShipmentSourceSolicitud, req.ID); err != nil {
			return err
		} else if existente != nil {
			return domain.ErrInvalidState // la solicitud ya tiene envío
		}
		if _, err := r.Estados.IDByName(entity.EstadoDomainEnvio, entity.ShipmentEstadoEmpaque); err != nil {
			return err
		}

		now := time.Now()
		env = &entity.Shipment{
			ID:                   uuid.New().String(),
			SourceType:           entity.ShipmentSourceSolicitud,
			SourceID:             req.ID,
			Transportadora:       in.Transportadora,
			FechaRecogida:        in.FechaRecogida,
			FechaEstimadaEntrega: in.FechaEstimadaEntrega,
			Estado:               entity.ShipmentEstadoEmpaque,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := r.Shipments.Create(env); err != nil {
			return err
		}
		if err := r.Requests.UpdateHospitalOrigen(req.ID, callerHospitalID); err != nil {
			return err
		}

		return notify(r, &entity.Notification{
			HospitalID:     req.HospitalID,
			ActorID:        &callerHospitalID,
			Titulo:         "Envío creado",
			Mensaje:        fmt.Sprintf("Tu solicitud %s ya tiene envío con %s", req.ID, in.Transportadora),
			Categoria:      entity.NotifCategoriaSolicitud,
			ReferenciaTipo: "envio",
			ReferenciaID:   env.ID,
		}, &events)
	})
	if err != nil {
		return nil, err
	}

	uc.publishAll(events)
	return env, nil
}

// CreateDonationShipment crea el envío de una donación reclamada. Solo el
// hospital donante puede crearlo. Notifica al hospital receptor.
func (uc *UseCase) CreateDonationShipment(ctx context.Context, callerHospitalID, donationID string, in dto.CreateShipmentRequest) (*entity.Shipment, error) {
	if err := uc.requireActiveHospital(callerHospitalID); err != nil {
		return nil, err
	}
	if in.Transportadora == "" {
		return nil, domain.ErrInvalidInput
	}

	var env *entity.Shipment
	var events []entity.NotificationEvent
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		don, err := r.Donations.GetByID(donationID)
		if err != nil {
			return err
		}
		if don == nil {
			return domain.ErrNotFound
		}
		if don.HospitalID != callerHospitalID {
			return domain.ErrUnauthorized
		}
		if don.Estado != entity.DonationEstadoSolicitado || don.HospitalOrigenID == nil {
			return domain.ErrInvalidState
		}
		if existente, err := r.Shipments.GetBySource(entity.ShipmentSourceDonacion, don.ID); err != nil {
			return err
		} else if existente != nil {
			return domain.ErrInvalidState
		}
		if _, err := r.Estados.IDByName(entity.EstadoDomainEnvio, entity.ShipmentEstadoEmpaque); err != nil {
			return err
		}

		now := time.Now()
		env = &entity.Shipment{
			ID:                   uuid.New().String(),
			SourceType:           entity.ShipmentSourceDonacion,
			SourceID:             don.ID,
			Transportadora:       in.Transportadora,
			FechaRecogida:        in.FechaRecogida,
			FechaEstimadaEntrega: in.FechaEstimadaEntrega,
			Estado:               entity.ShipmentEstadoEmpaque,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := r.Shipments.Create(env); err != nil {
			return err
		}

		return notify(r, &entity.Notification{
			HospitalID:     *don.HospitalOrigenID,
			ActorID:        &callerHospitalID,
			Titulo:         "Envío de donación creado",
			Mensaje:        fmt.Sprintf("La donación %s ya tiene envío con %s", don.ID, in.Transportadora),
			Categoria:      entity.NotifCategoriaDonacion,
			ReferenciaTipo: "envio",
			ReferenciaID:   env.ID,
		}, &events)
	})
	if err != nil {
		return nil, err
	}

	uc.publishAll(events)
	return env, nil
}

// AdvanceShipment pide la siguiente transición del envío. Solo el hospital
// emisor puede avanzarlo; el receptor nunca. Al entrar en Distribucion se
// genera y guarda el PIN de entrega; Distribucion → Entregado exige el PIN
// exacto y estampa la fecha de entrega. El envío devuelto nunca incluye el
// PIN: solo el receptor lo lee, vía GetShipmentFor, y debe presentárselo al
// emisor en la entrega física. Los avances puros no notifican: el PIN es la
// señal fuera de banda hacia el receptor.
func (uc *UseCase) AdvanceShipment(ctx context.Context, shipmentID, callerHospitalID, pin string) (*entity.Shipment, error) {
	var result *entity.Shipment
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		env, err := r.Shipments.GetByID(shipmentID)
		if err != nil {
			return err
		}
		if env == nil {
			return domain.ErrNotFound
		}

		src, err := resolveSource(env, r.Requests.GetByID, r.Donations.GetByID)
		if err != nil {
			return err
		}
		if !src.roles.EsEmisor(callerHospitalID) {
			return domain.ErrUnauthorized
		}

		siguiente, err := entity.NextShipmentEstado(env.Estado)
		if err != nil {
			return err
		}

		var nuevoPin *string
		var fechaEntrega *time.Time
		switch siguiente {
		case entity.ShipmentEstadoDistribucion:
			generado, err := domenvio.GeneratePin()
			if err != nil {
				return err
			}
			nuevoPin = &generado
		case entity.ShipmentEstadoEntregado:
			if env.PinEntrega == nil {
				return domain.ErrInvalidState
			}
			if err := domenvio.VerifyPin(pin, *env.PinEntrega); err != nil {
				return err
			}
			now := time.Now()
			fechaEntrega = &now
		}

		actualID, err := r.Estados.IDByName(entity.EstadoDomainEnvio, env.Estado)
		if err != nil {
			return err
		}
		siguienteID, err := r.Estados.IDByName(entity.EstadoDomainEnvio, siguiente)
		if err != nil {
			return err
		}
		if err := r.Shipments.AdvanceIf(env.ID, actualID, siguienteID, nuevoPin, fechaEntrega); err != nil {
			return err
		}

		// Una donación entregada queda Completada en la misma transacción.
		if siguiente == entity.ShipmentEstadoEntregado && src.don != nil {
			solicitadoID, err := r.Estados.IDByName(entity.EstadoDomainDonacion, entity.DonationEstadoSolicitado)
			if err != nil {
				return err
			}
			completadoID, err := r.Estados.IDByName(entity.EstadoDomainDonacion, entity.DonationEstadoCompletado)
			if err != nil {
				return err
			}
			if err := r.Donations.UpdateEstadoIf(src.don.ID, solicitadoID, completadoID); err != nil {
				return err
			}
		}

		env.Estado = siguiente
		if fechaEntrega != nil {
			env.FechaEntrega = fechaEntrega
		}
		// La vista devuelta es la del emisor y nunca lleva el PIN; el receptor
		// lo consulta vía GetShipmentFor.
		env.PinEntrega = nil
		result = env
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetShipmentFor devuelve la vista del envío para el hospital consultante.
// El PIN solo se revela al hospital receptor; un hospital sin rol en el envío
// no puede consultarlo.
func (uc *UseCase) GetShipmentFor(_ context.Context, shipmentID, callerHospitalID string) (*dto.ShipmentResponse, error) {
	env, err := uc.envRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, domain.ErrNotFound
	}
	src, err := resolveSource(env, uc.reqRepo.GetByID, uc.donRepo.GetByID)
	if err != nil {
		return nil, err
	}
	if !src.roles.EsEmisor(callerHospitalID) && !src.roles.EsReceptor(callerHospitalID) {
		return nil, domain.ErrUnauthorized
	}

	resp := &dto.ShipmentResponse{
		ID:                   env.ID,
		SourceType:           env.SourceType,
		SourceID:             env.SourceID,
		Transportadora:       env.Transportadora,
		FechaRecogida:        env.FechaRecogida,
		FechaEstimadaEntrega: env.FechaEstimadaEntrega,
		Estado:               env.Estado,
		FechaEntrega:         env.FechaEntrega,
	}
	if src.roles.EsReceptor(callerHospitalID) {
		resp.PinEntrega = env.PinEntrega
	}
	return resp, nil
}

// shipmentParty carga el envío y valida que el consultante sea parte.
func (uc *UseCase) shipmentParty(shipmentID, callerHospitalID string) (*entity.Shipment, *shipmentSource, error) {
	env, err := uc.envRepo.GetByID(shipmentID)
	if err != nil {
		return nil, nil, err
	}
	if env == nil {
		return nil, nil, domain.ErrNotFound
	}
	src, err := resolveSource(env, uc.reqRepo.GetByID, uc.donRepo.GetByID)
	if err != nil {
		return nil, nil, err
	}
	if !src.roles.EsEmisor(callerHospitalID) && !src.roles.EsReceptor(callerHospitalID) {
		return nil, nil, domain.ErrUnauthorized
	}
	return env, src, nil
}

// sourceMedication resuelve el medicamento y cantidad del respaldo del envío.
func (uc *UseCase) sourceMedication(src *shipmentSource) (*entity.Medication, *entity.Publication, *entity.Donation, error) {
	if src.req != nil {
		pub, err := uc.pubRepo.GetByID(src.req.PublicationID)
		if err != nil {
			return nil, nil, nil, err
		}
		if pub == nil {
			return nil, nil, nil, domain.ErrNotFound
		}
		med, err := uc.medRepo.GetByID(pub.MedicationID)
		if err != nil {
			return nil, nil, nil, err
		}
		return med, pub, nil, nil
	}
	med, err := uc.medRepo.GetByID(src.don.MedicationID)
	if err != nil {
		return nil, nil, nil, err
	}
	return med, nil, src.don, nil
}

// GenerateActaEntrega genera el PDF del acta de entrega. Solo disponible para
// las partes del envío y una vez Entregado.
func (uc *UseCase) GenerateActaEntrega(ctx context.Context, shipmentID, callerHospitalID string) ([]byte, error) {
	env, src, err := uc.shipmentParty(shipmentID, callerHospitalID)
	if err != nil {
		return nil, err
	}
	if env.Estado != entity.ShipmentEstadoEntregado || env.FechaEntrega == nil {
		return nil, domain.ErrInvalidState
	}

	emisor, err := uc.hospitalRepo.GetByID(src.roles.EmisorID)
	if err != nil {
		return nil, err
	}
	receptor, err := uc.hospitalRepo.GetByID(src.roles.ReceptorID)
	if err != nil {
		return nil, err
	}
	med, pub, don, err := uc.sourceMedication(src)
	if err != nil {
		return nil, err
	}
	if emisor == nil || receptor == nil || med == nil {
		return nil, domain.ErrNotFound
	}

	data := ActaEntregaData{
		ShipmentID:      env.ID,
		Transportadora:  env.Transportadora,
		EmisorNombre:    emisor.Nombre,
		ReceptorNombre:  receptor.Nombre,
		MedicamentoDesc: fmt.Sprintf("%s %s", med.Nombre, med.Concentracion),
		FechaRecogida:   env.FechaRecogida,
		FechaEntrega:    *env.FechaEntrega,
	}
	if pub != nil {
		data.Cantidad, data.Unidad = pub.Cantidad, pub.Unidad
	} else {
		data.Cantidad, data.Unidad = don.Cantidad, don.Unidad
	}
	return uc.actaPDF.GenerateActaPDF(ctx, data)
}

// BuildRemision construye la remisión XML del envío con su huella digital,
// para integrarse con los sistemas internos del hospital.
func (uc *UseCase) BuildRemision(_ context.Context, shipmentID, callerHospitalID string) ([]byte, string, error) {
	env, src, err := uc.shipmentParty(shipmentID, callerHospitalID)
	if err != nil {
		return nil, "", err
	}

	emisor, err := uc.hospitalRepo.GetByID(src.roles.EmisorID)
	if err != nil {
		return nil, "", err
	}
	receptor, err := uc.hospitalRepo.GetByID(src.roles.ReceptorID)
	if err != nil {
		return nil, "", err
	}
	med, pub, don, err := uc.sourceMedication(src)
	if err != nil {
		return nil, "", err
	}
	if emisor == nil || receptor == nil || med == nil {
		return nil, "", domain.ErrNotFound
	}

	data := RemisionData{
		ShipmentID:           env.ID,
		SourceType:           env.SourceType,
		SourceID:             env.SourceID,
		Transportadora:       env.Transportadora,
		EmisorNIT:            emisor.NIT,
		EmisorNombre:         emisor.Nombre,
		ReceptorNIT:          receptor.NIT,
		ReceptorNombre:       receptor.Nombre,
		MedicamentoCUM:       med.CUM,
		MedicamentoNombre:    med.Nombre,
		Estado:               env.Estado,
		FechaRecogida:        env.FechaRecogida,
		FechaEstimadaEntrega: env.FechaEstimadaEntrega,
	}
	if pub != nil {
		data.Cantidad, data.Unidad = pub.Cantidad, pub.Unidad
	} else {
		data.Cantidad, data.Unidad = don.Cantidad, don.Unidad
	}
	return uc.remision.Build(data)
}
