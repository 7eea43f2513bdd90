package exchange_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
)

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// compraValida payload mínimo válido de compra sobre una publicación.
func compraValida(publicationID string) dto.CreateRequestRequest {
	return dto.CreateRequestRequest{
		PublicationID:   publicationID,
		Tipo:            entity.RequestTipoCompra,
		PrecioPropuesto: decimalPtr(180000),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreatePublication / CreateDonation
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePublication_QuedaDisponible(t *testing.T) {
	e := newTestEnv(t)

	pub, err := e.uc.CreatePublication(context.Background(), hospitalNorte, dto.CreatePublicationRequest{
		MedicationID:     medAmoxicilina,
		Cantidad:         decimal.NewFromInt(30),
		Unidad:           "cajas",
		FechaVencimiento: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, pub)

	assert.Equal(t, entity.PublicationEstadoDisponible, pub.Estado)
	assert.Equal(t, hospitalNorte, pub.HospitalID)
	assert.NotEmpty(t, pub.ID)

	guardada := e.pub(t, pub.ID)
	assert.Equal(t, entity.PublicationEstadoDisponible, guardada.Estado)
}

func TestCreatePublication_DatosInvalidos(t *testing.T) {
	e := newTestEnv(t)
	valida := dto.CreatePublicationRequest{
		MedicationID:     medAmoxicilina,
		Cantidad:         decimal.NewFromInt(10),
		Unidad:           "cajas",
		FechaVencimiento: time.Now().AddDate(0, 3, 0),
	}

	casos := []struct {
		nombre   string
		mutar    func(in *dto.CreatePublicationRequest)
		esperado error
	}{
		{"cantidad cero", func(in *dto.CreatePublicationRequest) { in.Cantidad = decimal.Zero }, domain.ErrInvalidInput},
		{"cantidad negativa", func(in *dto.CreatePublicationRequest) { in.Cantidad = decimal.NewFromInt(-5) }, domain.ErrInvalidInput},
		{"unidad vacía", func(in *dto.CreatePublicationRequest) { in.Unidad = "" }, domain.ErrInvalidInput},
		{"lote vencido", func(in *dto.CreatePublicationRequest) { in.FechaVencimiento = time.Now().AddDate(0, 0, -1) }, domain.ErrInvalidInput},
		{"medicamento inexistente", func(in *dto.CreatePublicationRequest) { in.MedicationID = "med-fantasma" }, domain.ErrNotFound},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			in := valida
			c.mutar(&in)
			_, err := e.uc.CreatePublication(context.Background(), hospitalNorte, in)
			assert.ErrorIs(t, err, c.esperado)
		})
	}
}

func TestCreatePublication_HospitalInactivo(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.uc.CreatePublication(context.Background(), hospitalCerrado, dto.CreatePublicationRequest{
		MedicationID:     medAmoxicilina,
		Cantidad:         decimal.NewFromInt(10),
		Unidad:           "cajas",
		FechaVencimiento: time.Now().AddDate(0, 3, 0),
	})
	assert.ErrorIs(t, err, domain.ErrHospitalInactive)

	_, err = e.uc.CreatePublication(context.Background(), "hosp-fantasma", dto.CreatePublicationRequest{
		MedicationID:     medAmoxicilina,
		Cantidad:         decimal.NewFromInt(10),
		Unidad:           "cajas",
		FechaVencimiento: time.Now().AddDate(0, 3, 0),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDonation_QuedaDisponibleSinReceptor(t *testing.T) {
	e := newTestEnv(t)

	don, err := e.uc.CreateDonation(context.Background(), hospitalSur, dto.CreateDonationRequest{
		MedicationID:     medAmoxicilina,
		Cantidad:         decimal.NewFromInt(12),
		Unidad:           "ampollas",
		FechaVencimiento: time.Now().AddDate(0, 8, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DonationEstadoDisponible, don.Estado)
	assert.Nil(t, don.HospitalOrigenID, "una donación nueva no tiene receptor")
}

// ──────────────────────────────────────────────────────────────────────────────
// RequestDonation
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestDonation_ReclamaYNotificaAlDonante(t *testing.T) {
	e := newTestEnv(t)
	don := e.seedDonation(t, hospitalNorte, entity.DonationEstadoDisponible, nil)

	err := e.uc.RequestDonation(context.Background(), don.ID, hospitalSur)
	require.NoError(t, err)

	guardada := e.don(t, don.ID)
	assert.Equal(t, entity.DonationEstadoSolicitado, guardada.Estado)
	require.NotNil(t, guardada.HospitalOrigenID)
	assert.Equal(t, hospitalSur, *guardada.HospitalOrigenID)

	// Registro durable y push al donante.
	notifs := e.notifsFor(hospitalNorte)
	require.Len(t, notifs, 1)
	assert.Equal(t, entity.NotifCategoriaDonacion, notifs[0].Categoria)
	assert.Equal(t, don.ID, notifs[0].ReferenciaID)
	assert.Len(t, e.bc.EventsFor(hospitalNorte), 1)
}

func TestRequestDonation_PropiaDonacion(t *testing.T) {
	e := newTestEnv(t)
	don := e.seedDonation(t, hospitalNorte, entity.DonationEstadoDisponible, nil)

	err := e.uc.RequestDonation(context.Background(), don.ID, hospitalNorte)
	assert.ErrorIs(t, err, domain.ErrSelfClaim)
	assert.Equal(t, entity.DonationEstadoDisponible, e.don(t, don.ID).Estado)
}

func TestRequestDonation_YaSolicitada(t *testing.T) {
	e := newTestEnv(t)
	origen := hospitalCentro
	don := e.seedDonation(t, hospitalNorte, entity.DonationEstadoSolicitado, &origen)

	err := e.uc.RequestDonation(context.Background(), don.ID, hospitalSur)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	// El receptor original no cambia.
	assert.Equal(t, hospitalCentro, *e.don(t, don.ID).HospitalOrigenID)
}

// Dos hospitales compiten por la misma donación Disponible: exactamente uno
// gana la transición y el resto pierde la carrera.
func TestRequestDonation_CarreraSoloUnGanador(t *testing.T) {
	e := newTestEnv(t)
	don := e.seedDonation(t, hospitalNorte, entity.DonationEstadoDisponible, nil)

	claimers := []string{hospitalSur, hospitalCentro}
	errs := make([]error, len(claimers))
	var wg sync.WaitGroup
	for i, h := range claimers {
		wg.Add(1)
		go func(i int, h string) {
			defer wg.Done()
			errs[i] = e.uc.RequestDonation(context.Background(), don.ID, h)
		}(i, h)
	}
	wg.Wait()

	ganadores := 0
	for _, err := range errs {
		if err == nil {
			ganadores++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		}
	}
	require.Equal(t, 1, ganadores, "exactamente un hospital debe ganar la donación")

	guardada := e.don(t, don.ID)
	assert.Equal(t, entity.DonationEstadoSolicitado, guardada.Estado)
	require.NotNil(t, guardada.HospitalOrigenID)
	assert.Contains(t, claimers, *guardada.HospitalOrigenID)
	// Solo el ganador notifica al donante.
	assert.Len(t, e.notifsFor(hospitalNorte), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateRequest
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRequest_MarcaPublicacionSolicitada(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoDisponible)

	req, err := e.uc.CreateRequest(context.Background(), hospitalSur, compraValida(pub.ID))
	require.NoError(t, err)

	assert.Equal(t, entity.RequestEstadoPendiente, req.Estado)
	assert.Equal(t, hospitalNorte, req.HospitalDestinoID, "el destino es el dueño de la publicación")
	assert.Equal(t, entity.PublicationEstadoSolicitado, e.pub(t, pub.ID).Estado)

	notifs := e.notifsFor(hospitalNorte)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Nueva solicitud", notifs[0].Titulo)
}

// Una publicación ya Solicitada admite más solicitudes: varias pueden quedar
// Pendientes a la vez, la exclusión ocurre al aceptar.
func TestCreateRequest_PublicacionSolicitadaAdmiteMas(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoSolicitado)

	req, err := e.uc.CreateRequest(context.Background(), hospitalCentro, compraValida(pub.ID))
	require.NoError(t, err)
	assert.Equal(t, entity.RequestEstadoPendiente, req.Estado)
	assert.Equal(t, entity.PublicationEstadoSolicitado, e.pub(t, pub.ID).Estado)
}

func TestCreateRequest_PublicacionConcretada(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoConcretado)

	_, err := e.uc.CreateRequest(context.Background(), hospitalSur, compraValida(pub.ID))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateRequest_PropiaPublicacion(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoDisponible)

	_, err := e.uc.CreateRequest(context.Background(), hospitalNorte, compraValida(pub.ID))
	assert.ErrorIs(t, err, domain.ErrSelfClaim)
}

func TestCreateRequest_PayloadPorTipo(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoDisponible)

	casos := []struct {
		nombre string
		in     dto.CreateRequestRequest
		valido bool
	}{
		{"compra con precio", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoCompra, PrecioPropuesto: decimalPtr(100000)}, true},
		{"compra sin precio", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoCompra}, false},
		{"compra precio cero", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoCompra, PrecioPropuesto: decimalPtr(0)}, false},
		{"intercambio completo", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoIntercambio, MedOfrecido: "Ibuprofeno 400 mg", CantidadOfrecida: decimalPtr(20)}, true},
		{"intercambio sin medicamento", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoIntercambio, CantidadOfrecida: decimalPtr(20)}, false},
		{"intercambio sin cantidad", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoIntercambio, MedOfrecido: "Ibuprofeno 400 mg"}, false},
		{"préstamo con fecha futura", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoPrestamo, FechaDevolucion: timePtr(time.Now().AddDate(0, 1, 0))}, true},
		{"préstamo con fecha pasada", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: entity.RequestTipoPrestamo, FechaDevolucion: timePtr(time.Now().AddDate(0, -1, 0))}, false},
		{"tipo desconocido", dto.CreateRequestRequest{PublicationID: pub.ID, Tipo: "permuta"}, false},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := e.uc.CreateRequest(context.Background(), hospitalSur, c.in)
			if c.valido {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// DecideRequest
// ──────────────────────────────────────────────────────────────────────────────

func TestDecideRequest_AceptarConcretiza(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoSolicitado)
	req := e.seedRequest(t, hospitalSur, pub, entity.RequestEstadoPendiente)

	err := e.uc.DecideRequest(context.Background(), req.ID, hospitalNorte, exchange.DecisionAceptar)
	require.NoError(t, err)

	assert.Equal(t, entity.RequestEstadoAceptada, e.req(t, req.ID).Estado)
	assert.Equal(t, entity.PublicationEstadoConcretado, e.pub(t, pub.ID).Estado)

	notifs := e.notifsFor(hospitalSur)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Solicitud aceptada", notifs[0].Titulo)
}

func TestDecideRequest_RechazarNoAlteraPublicacion(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoSolicitado)
	req := e.seedRequest(t, hospitalSur, pub, entity.RequestEstadoPendiente)

	err := e.uc.DecideRequest(context.Background(), req.ID, hospitalNorte, exchange.DecisionRechazar)
	require.NoError(t, err)

	assert.Equal(t, entity.RequestEstadoRechazada, e.req(t, req.ID).Estado)
	assert.Equal(t, entity.PublicationEstadoSolicitado, e.pub(t, pub.ID).Estado, "rechazar no toca la publicación")

	notifs := e.notifsFor(hospitalSur)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Solicitud rechazada", notifs[0].Titulo)
}

func TestDecideRequest_SoloElDuenoDecide(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoSolicitado)
	req := e.seedRequest(t, hospitalSur, pub, entity.RequestEstadoPendiente)

	// Ni el solicitante ni un tercero pueden decidir.
	err := e.uc.DecideRequest(context.Background(), req.ID, hospitalSur, exchange.DecisionAceptar)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	err = e.uc.DecideRequest(context.Background(), req.ID, hospitalCentro, exchange.DecisionAceptar)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Equal(t, entity.RequestEstadoPendiente, e.req(t, req.ID).Estado)
}

func TestDecideRequest_DecisionInvalida(t *testing.T) {
	e := newTestEnv(t)
	err := e.uc.DecideRequest(context.Background(), "sol-x", hospitalNorte, "aplazar")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecideRequest_YaResuelta(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoConcretado)
	req := e.seedRequest(t, hospitalSur, pub, entity.RequestEstadoAceptada)

	err := e.uc.DecideRequest(context.Background(), req.ID, hospitalNorte, exchange.DecisionAceptar)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Dos solicitudes Pendientes sobre la misma publicación se aceptan en
// paralelo: solo una concretiza; la otra revierte completa, incluida su
// transición a Aceptada.
func TestDecideRequest_AceptacionesConcurrentes(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoSolicitado)
	reqA := e.seedRequest(t, hospitalSur, pub, entity.RequestEstadoPendiente)
	reqB := e.seedRequest(t, hospitalCentro, pub, entity.RequestEstadoPendiente)

	var wg sync.WaitGroup
	errs := make(map[string]error, 2)
	var mu sync.Mutex
	for _, id := range []string{reqA.ID, reqB.ID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := e.uc.DecideRequest(context.Background(), id, hospitalNorte, exchange.DecisionAceptar)
			mu.Lock()
			errs[id] = err
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	var ganadora, perdedora string
	switch {
	case errs[reqA.ID] == nil && errs[reqB.ID] != nil:
		ganadora, perdedora = reqA.ID, reqB.ID
	case errs[reqB.ID] == nil && errs[reqA.ID] != nil:
		ganadora, perdedora = reqB.ID, reqA.ID
	default:
		t.Fatalf("exactamente una aceptación debe prosperar: %v / %v", errs[reqA.ID], errs[reqB.ID])
	}
	assert.ErrorIs(t, errs[perdedora], domain.ErrInvalidState)

	assert.Equal(t, entity.PublicationEstadoConcretado, e.pub(t, pub.ID).Estado)
	assert.Equal(t, entity.RequestEstadoAceptada, e.req(t, ganadora).Estado)
	// La transacción perdedora revirtió su DecideIf: la solicitud sigue Pendiente.
	assert.Equal(t, entity.RequestEstadoPendiente, e.req(t, perdedora).Estado)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreatePriorityRequestWithPayment
// ──────────────────────────────────────────────────────────────────────────────

func prioridadValida(publicationID string) dto.CreatePriorityRequest {
	return dto.CreatePriorityRequest{
		Solicitud: compraValida(publicationID),
		Pago: dto.PriorityPaymentRequest{
			Monto:  decimal.NewFromInt(480000),
			Metodo: "transferencia",
		},
		Transportadora:       "Servientrega",
		FechaRecogida:        time.Now().Add(24 * time.Hour),
		FechaEstimadaEntrega: time.Now().Add(72 * time.Hour),
	}
}

func TestCreatePriorityRequest_TodoEnUnaUnidad(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoDisponible)

	res, err := e.uc.CreatePriorityRequestWithPayment(context.Background(), hospitalSur, prioridadValida(pub.ID))
	require.NoError(t, err)
	require.NotNil(t, res)

	// Solicitud nace Aceptada, el envío expedito arranca EnTransito y el pago
	// queda Completado; la publicación se concretiza en la misma unidad.
	assert.Equal(t, entity.RequestEstadoAceptada, e.req(t, res.Request.ID).Estado)
	env := e.env(t, res.Shipment.ID)
	assert.Equal(t, entity.ShipmentEstadoEnTransito, env.Estado)
	assert.Equal(t, entity.ShipmentSourceSolicitud, env.SourceType)
	assert.Equal(t, res.Request.ID, env.SourceID)
	assert.Equal(t, entity.PaymentEstadoCompletado, res.Payment.Estado)
	assert.Equal(t, entity.PublicationEstadoConcretado, e.pub(t, pub.ID).Estado)

	// Dos notificaciones de pago: al dueño y al pagador.
	notifsDueno := e.notifsFor(hospitalNorte)
	require.Len(t, notifsDueno, 1)
	assert.Equal(t, "Pago recibido", notifsDueno[0].Titulo)
	notifsPagador := e.notifsFor(hospitalSur)
	require.Len(t, notifsPagador, 1)
	assert.Equal(t, "Pago confirmado", notifsPagador[0].Titulo)
	assert.Len(t, e.bc.Events(), 2)
}

func TestCreatePriorityRequest_FallaNoDejaNada(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoConcretado)

	_, err := e.uc.CreatePriorityRequestWithPayment(context.Background(), hospitalSur, prioridadValida(pub.ID))
	require.ErrorIs(t, err, domain.ErrInvalidState)

	// Nada quedó escrito: ni solicitud, ni envío, ni pago, ni notificaciones.
	e.db.mu.Lock()
	assert.Empty(t, e.db.reqs)
	assert.Empty(t, e.db.envs)
	assert.Empty(t, e.db.pagos)
	assert.Empty(t, e.db.notifs)
	e.db.mu.Unlock()
	assert.Empty(t, e.bc.Events())
}

func TestCreatePriorityRequest_DatosInvalidos(t *testing.T) {
	e := newTestEnv(t)
	pub := e.seedPublication(t, hospitalNorte, entity.PublicationEstadoDisponible)

	sinMonto := prioridadValida(pub.ID)
	sinMonto.Pago.Monto = decimal.Zero
	_, err := e.uc.CreatePriorityRequestWithPayment(context.Background(), hospitalSur, sinMonto)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sinTransportadora := prioridadValida(pub.ID)
	sinTransportadora.Transportadora = ""
	_, err = e.uc.CreatePriorityRequestWithPayment(context.Background(), hospitalSur, sinTransportadora)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
