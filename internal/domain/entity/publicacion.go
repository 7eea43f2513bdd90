package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una publicación (catálogo estados, dominio "publicacion").
const (
	PublicationEstadoDisponible = "Disponible"
	PublicationEstadoSolicitado = "Solicitado"
	PublicationEstadoConcretado = "Concretado"
)

// EstadoDomainPublicacion dominio del catálogo de estados para publicaciones.
const EstadoDomainPublicacion = "publicacion"

// Publication es la oferta de un lote de medicamento por parte de un hospital
// (venta, intercambio o préstamo). Una vez Concretado es inmutable; nunca se
// elimina físicamente, solo se transiciona de estado.
type Publication struct {
	ID               string
	HospitalID       string // hospital que publica (dueño)
	MedicationID     string
	Cantidad         decimal.Decimal
	Unidad           string // cajas, unidades, ampollas...
	FechaVencimiento time.Time
	Estado           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
