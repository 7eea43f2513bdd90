package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
)

// Decisiones admitidas sobre una solicitud Pendiente.
const (
	DecisionAceptar  = "aceptar"
	DecisionRechazar = "rechazar"
)

// validateRequestPayload valida el payload según el tipo de solicitud:
// compra exige precio positivo; intercambio exige medicamento ofrecido y
// cantidad positiva; préstamo exige fecha de devolución futura.
func validateRequestPayload(in dto.CreateRequestRequest) error {
	switch in.Tipo {
	case entity.RequestTipoCompra:
		if in.PrecioPropuesto == nil || !in.PrecioPropuesto.IsPositive() {
			return domain.ErrInvalidInput
		}
	case entity.RequestTipoIntercambio:
		if in.MedOfrecido == "" || in.CantidadOfrecida == nil || !in.CantidadOfrecida.IsPositive() {
			return domain.ErrInvalidInput
		}
	case entity.RequestTipoPrestamo:
		if in.FechaDevolucion == nil || !in.FechaDevolucion.After(time.Now()) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// mensajeSolicitud arma el mensaje al dueño de la publicación según el tipo.
func mensajeSolicitud(req *entity.Request) string {
	switch req.Tipo {
	case entity.RequestTipoCompra:
		return fmt.Sprintf("Proponen comprar tu publicación %s por $%s", req.PublicationID, req.PrecioPropuesto.StringFixed(0))
	case entity.RequestTipoIntercambio:
		return fmt.Sprintf("Proponen intercambiar tu publicación %s por %s x %s", req.PublicationID, req.MedOfrecido, req.CantidadOfrecida.String())
	case entity.RequestTipoPrestamo:
		return fmt.Sprintf("Solicitan en préstamo tu publicación %s con devolución el %s", req.PublicationID, req.FechaDevolucion.Format("2006-01-02"))
	}
	return fmt.Sprintf("Nueva solicitud sobre tu publicación %s", req.PublicationID)
}

// buildRequest construye la solicitud dentro de la transacción: valida la
// publicación objetivo, resuelve a su dueño y, si la publicación sigue
// Disponible, la marca Solicitado. Una publicación Concretada ya no admite
// solicitudes.
func buildRequest(r TxRepos, hospitalID string, in dto.CreateRequestRequest, estadoInicial string) (*entity.Request, error) {
	pub, err := r.Publications.GetByID(in.PublicationID)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, domain.ErrNotFound
	}
	if pub.Estado == entity.PublicationEstadoConcretado {
		return nil, domain.ErrInvalidState
	}
	if pub.HospitalID == hospitalID {
		return nil, domain.ErrSelfClaim
	}

	if pub.Estado == entity.PublicationEstadoDisponible {
		disponibleID, err := r.Estados.IDByName(entity.EstadoDomainPublicacion, entity.PublicationEstadoDisponible)
		if err != nil {
			return nil, err
		}
		solicitadoID, err := r.Estados.IDByName(entity.EstadoDomainPublicacion, entity.PublicationEstadoSolicitado)
		if err != nil {
			return nil, err
		}
		if err := r.Publications.UpdateEstadoIf(pub.ID, disponibleID, solicitadoID); err != nil {
			return nil, err
		}
	}

	// Verifica que el estado inicial exista en el catálogo antes de insertar.
	if _, err := r.Estados.IDByName(entity.EstadoDomainSolicitud, estadoInicial); err != nil {
		return nil, err
	}

	now := time.Now()
	req := &entity.Request{
		ID:                uuid.New().String(),
		HospitalID:        hospitalID,
		HospitalDestinoID: pub.HospitalID,
		PublicationID:     pub.ID,
		Tipo:              in.Tipo,
		PrecioPropuesto:   in.PrecioPropuesto,
		MedOfrecido:       in.MedOfrecido,
		CantidadOfrecida:  in.CantidadOfrecida,
		FechaDevolucion:   in.FechaDevolucion,
		Estado:            estadoInicial,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Requests.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// CreateRequest crea una solicitud Pendiente sobre una publicación y notifica
// a su dueño con un mensaje según el tipo (compra/intercambio/préstamo).
func (uc *UseCase) CreateRequest(ctx context.Context, hospitalID string, in dto.CreateRequestRequest) (*entity.Request, error) {
	if err := uc.requireActiveHospital(hospitalID); err != nil {
		return nil, err
	}
	if err := validateRequestPayload(in); err != nil {
		return nil, err
	}

	var req *entity.Request
	var events []entity.NotificationEvent
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		var err error
		req, err = buildRequest(r, hospitalID, in, entity.RequestEstadoPendiente)
		if err != nil {
			return err
		}
		return notify(r, &entity.Notification{
			HospitalID:     req.HospitalDestinoID,
			ActorID:        &hospitalID,
			Titulo:         "Nueva solicitud",
			Mensaje:        mensajeSolicitud(req),
			Categoria:      entity.NotifCategoriaSolicitud,
			ReferenciaTipo: "solicitud",
			ReferenciaID:   req.ID,
		}, &events)
	})
	if err != nil {
		return nil, err
	}

	uc.publishAll(events)
	return req, nil
}

// DecideRequest acepta o rechaza una solicitud Pendiente. Solo el dueño de la
// publicación decide. Aceptar concretiza la publicación en la misma
// transacción: o ambas escrituras confirman o ninguna. Dos aceptaciones
// concurrentes sobre la misma publicación nunca prosperan ambas: la segunda
// pierde la carrera del UPDATE condicionado y recibe ErrInvalidState.
// Rechazar no altera el estado de la publicación.
func (uc *UseCase) DecideRequest(ctx context.Context, requestID, callerHospitalID, decision string) error {
	if decision != DecisionAceptar && decision != DecisionRechazar {
		return domain.ErrInvalidInput
	}

	var events []entity.NotificationEvent
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		req, err := r.Requests.GetByID(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.HospitalDestinoID != callerHospitalID {
			return domain.ErrUnauthorized
		}
		if req.Estado != entity.RequestEstadoPendiente {
			return domain.ErrInvalidState
		}

		pendienteID, err := r.Estados.IDByName(entity.EstadoDomainSolicitud, entity.RequestEstadoPendiente)
		if err != nil {
			return err
		}

		titulo := "Solicitud rechazada"
		if decision == DecisionAceptar {
			titulo = "Solicitud aceptada"

			pub, err := r.Publications.GetByID(req.PublicationID)
			if err != nil {
				return err
			}
			if pub == nil {
				return domain.ErrNotFound
			}
			if pub.Estado == entity.PublicationEstadoConcretado {
				return domain.ErrInvalidState
			}
			actualID, err := r.Estados.IDByName(entity.EstadoDomainPublicacion, pub.Estado)
			if err != nil {
				return err
			}
			concretadoID, err := r.Estados.IDByName(entity.EstadoDomainPublicacion, entity.PublicationEstadoConcretado)
			if err != nil {
				return err
			}
			aceptadaID, err := r.Estados.IDByName(entity.EstadoDomainSolicitud, entity.RequestEstadoAceptada)
			if err != nil {
				return err
			}

			if err := r.Requests.DecideIf(req.ID, pendienteID, aceptadaID); err != nil {
				return err
			}
			// Ambas escrituras o ninguna: si la publicación ya cambió de
			// estado (otra aceptación ganó), toda la transacción revierte.
			if err := r.Publications.UpdateEstadoIf(pub.ID, actualID, concretadoID); err != nil {
				return err
			}
		} else {
			rechazadaID, err := r.Estados.IDByName(entity.EstadoDomainSolicitud, entity.RequestEstadoRechazada)
			if err != nil {
				return err
			}
			if err := r.Requests.DecideIf(req.ID, pendienteID, rechazadaID); err != nil {
				return err
			}
		}

		return notify(r, &entity.Notification{
			HospitalID:     req.HospitalID,
			ActorID:        &callerHospitalID,
			Titulo:         titulo,
			Mensaje:        fmt.Sprintf("Tu solicitud %s fue %s", req.ID, map[string]string{DecisionAceptar: "aceptada", DecisionRechazar: "rechazada"}[decision]),
			Categoria:      entity.NotifCategoriaSolicitud,
			ReferenciaTipo: "solicitud",
			ReferenciaID:   req.ID,
		}, &events)
	})
	if err != nil {
		return err
	}

	uc.publishAll(events)
	return nil
}

// PriorityResult entidades creadas por la operación prioritaria.
type PriorityResult struct {
	Request  *entity.Request
	Shipment *entity.Shipment
	Payment  *entity.Payment
}

// CreatePriorityRequestWithPayment crea en una sola unidad atómica la
// solicitud (Aceptada), su envío expedito (arranca en EnTransito) y el pago
// Completado, y concretiza la publicación. Si cualquier paso falla, nada
// queda escrito. Emite dos notificaciones: al dueño de la publicación y al
// pagador.
func (uc *UseCase) CreatePriorityRequestWithPayment(ctx context.Context, hospitalID string, in dto.CreatePriorityRequest) (*PriorityResult, error) {
	if err := uc.requireActiveHospital(hospitalID); err != nil {
		return nil, err
	}
	if err := validateRequestPayload(in.Solicitud); err != nil {
		return nil, err
	}
	if !in.Pago.Monto.IsPositive() || in.Transportadora == "" {
		return nil, domain.ErrInvalidInput
	}

	var res PriorityResult
	var events []entity.NotificationEvent
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		req, err := buildRequest(r, hospitalID, in.Solicitud, entity.RequestEstadoAceptada)
		if err != nil {
			return err
		}

		pub, err := r.Publications.GetByID(req.PublicationID)
		if err != nil {
			return err
		}
		actualID, err := r.Estados.IDByName(entity.EstadoDomainPublicacion, pub.Estado)
		if err != nil {
			return err
		}
		concretadoID, err := r.Estados.IDByName(entity.EstadoDomainPublicacion, entity.PublicationEstadoConcretado)
		if err != nil {
			return err
		}
		if err := r.Publications.UpdateEstadoIf(pub.ID, actualID, concretadoID); err != nil {
			return err
		}

		// El envío expedito arranca en el primer estado posterior al inicial.
		if _, err := r.Estados.IDByName(entity.EstadoDomainEnvio, entity.ShipmentEstadoEnTransito); err != nil {
			return err
		}
		now := time.Now()
		env := &entity.Shipment{
			ID:                   uuid.New().String(),
			SourceType:           entity.ShipmentSourceSolicitud,
			SourceID:             req.ID,
			Transportadora:       in.Transportadora,
			FechaRecogida:        in.FechaRecogida,
			FechaEstimadaEntrega: in.FechaEstimadaEntrega,
			Estado:               entity.ShipmentEstadoEnTransito,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := r.Shipments.Create(env); err != nil {
			return err
		}

		pago := &entity.Payment{
			ID:         uuid.New().String(),
			RequestID:  req.ID,
			ShipmentID: env.ID,
			Monto:      in.Pago.Monto,
			Metodo:     in.Pago.Metodo,
			Estado:     entity.PaymentEstadoCompletado,
			CreatedAt:  now,
		}
		if err := r.Payments.Create(pago); err != nil {
			return err
		}

		if err := notify(r, &entity.Notification{
			HospitalID:     req.HospitalDestinoID,
			ActorID:        &hospitalID,
			Titulo:         "Pago recibido",
			Mensaje:        fmt.Sprintf("Pago de $%s recibido por tu publicación %s", pago.Monto.StringFixed(0), req.PublicationID),
			Categoria:      entity.NotifCategoriaPago,
			ReferenciaTipo: "pago",
			ReferenciaID:   pago.ID,
		}, &events); err != nil {
			return err
		}
		if err := notify(r, &entity.Notification{
			HospitalID:     hospitalID,
			ActorID:        &req.HospitalDestinoID,
			Titulo:         "Pago confirmado",
			Mensaje:        fmt.Sprintf("Tu pago de $%s quedó confirmado; el envío %s va en camino", pago.Monto.StringFixed(0), env.ID),
			Categoria:      entity.NotifCategoriaPago,
			ReferenciaTipo: "pago",
			ReferenciaID:   pago.ID,
		}, &events); err != nil {
			return err
		}

		res = PriorityResult{Request: req, Shipment: env, Payment: pago}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishAll(events)
	return &res, nil
}
