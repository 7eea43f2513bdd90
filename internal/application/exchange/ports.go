package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción. El TxRunner
// los construye sobre la tx y los entrega al callback; todo lo escrito dentro
// del callback se confirma o revierte como unidad.
type TxRepos struct {
	Publications  repository.PublicationRepository
	Donations     repository.DonationRepository
	Requests      repository.RequestRepository
	Shipments     repository.ShipmentRepository
	Payments      repository.PaymentRepository
	Notifications repository.NotificationRepository
	Estados       repository.EstadoRepository
}

// TxRunner ejecuta fn dentro de una transacción y hace Commit o Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// Broadcaster difunde un evento a todas las conexiones vivas del hospital.
// Mejor esfuerzo: nunca bloquea ni falla la operación que lo invoca; el
// registro durable de la notificación ya quedó escrito en la transacción.
type Broadcaster interface {
	Publish(hospitalID string, ev entity.NotificationEvent)
}

// ActaEntregaData datos para la representación gráfica del acta de entrega.
type ActaEntregaData struct {
	ShipmentID       string
	Transportadora   string
	EmisorNombre     string
	ReceptorNombre   string
	MedicamentoDesc  string
	Cantidad         decimal.Decimal
	Unidad           string
	FechaRecogida    time.Time
	FechaEntrega     time.Time
}

// ActaPDFGenerator genera el PDF del acta de entrega de un envío Entregado.
type ActaPDFGenerator interface {
	GenerateActaPDF(ctx context.Context, data ActaEntregaData) ([]byte, error)
}

// RemisionData datos de la remisión XML para integración con sistemas del hospital.
type RemisionData struct {
	ShipmentID           string
	SourceType           string
	SourceID             string
	Transportadora       string
	EmisorNIT            string
	EmisorNombre         string
	ReceptorNIT          string
	ReceptorNombre       string
	MedicamentoCUM       string
	MedicamentoNombre    string
	Cantidad             decimal.Decimal
	Unidad               string
	Estado               string
	FechaRecogida        time.Time
	FechaEstimadaEntrega time.Time
}

// RemisionBuilder construye el documento XML de remisión y su huella digital
// (digest sobre el documento canonicalizado).
type RemisionBuilder interface {
	Build(data RemisionData) (xmlDoc []byte, digest string, err error)
}
