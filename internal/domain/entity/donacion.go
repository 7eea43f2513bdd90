package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una donación (catálogo estados, dominio "donacion").
const (
	DonationEstadoDisponible = "Disponible"
	DonationEstadoSolicitado = "Solicitado"
	DonationEstadoCompletado = "Completado"
	DonationEstadoCancelado  = "Cancelado"
)

// EstadoDomainDonacion dominio del catálogo de estados para donaciones.
const EstadoDomainDonacion = "donacion"

// Donation es la oferta de un lote de medicamento entregado sin contraprestación.
// HospitalID es el donante; HospitalOrigenID queda estampado cuando otro
// hospital la reclama. Un hospital no puede reclamar su propia donación.
type Donation struct {
	ID               string
	HospitalID       string  // hospital donante
	HospitalOrigenID *string // hospital receptor, nil hasta que alguien la solicita
	MedicationID     string
	Cantidad         decimal.Decimal
	Unidad           string
	FechaVencimiento time.Time
	Estado           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
