package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePublicationRequest alta de una oferta de medicamento.
type CreatePublicationRequest struct {
	MedicationID     string          `json:"medication_id"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	Unidad           string          `json:"unidad"`
	FechaVencimiento time.Time       `json:"fecha_vencimiento"`
}

// CreateDonationRequest alta de una donación.
type CreateDonationRequest struct {
	MedicationID     string          `json:"medication_id"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	Unidad           string          `json:"unidad"`
	FechaVencimiento time.Time       `json:"fecha_vencimiento"`
}

// CreateRequestRequest reclamo sobre una publicación. El payload depende del
// tipo: compra exige precio_propuesto > 0; intercambio exige med_ofrecido y
// cantidad_ofrecida > 0; prestamo exige fecha_devolucion futura.
type CreateRequestRequest struct {
	PublicationID    string           `json:"publication_id"`
	Tipo             string           `json:"tipo"`
	PrecioPropuesto  *decimal.Decimal `json:"precio_propuesto,omitempty"`
	MedOfrecido      string           `json:"med_ofrecido,omitempty"`
	CantidadOfrecida *decimal.Decimal `json:"cantidad_ofrecida,omitempty"`
	FechaDevolucion  *time.Time       `json:"fecha_devolucion,omitempty"`
}

// DecideRequestRequest decisión del dueño de la publicación.
type DecideRequestRequest struct {
	Decision string `json:"decision"` // aceptar | rechazar
}

// PriorityPaymentRequest pago de una solicitud prioritaria (liquidado externamente).
type PriorityPaymentRequest struct {
	Monto  decimal.Decimal `json:"monto"`
	Metodo string          `json:"metodo"`
}

// CreatePriorityRequest solicitud prioritaria: solicitud + envío expedito +
// pago en una sola unidad atómica.
type CreatePriorityRequest struct {
	Solicitud CreateRequestRequest   `json:"solicitud"`
	Pago      PriorityPaymentRequest `json:"pago"`
	// Datos del envío expedito.
	Transportadora       string    `json:"transportadora"`
	FechaRecogida        time.Time `json:"fecha_recogida"`
	FechaEstimadaEntrega time.Time `json:"fecha_estimada_entrega"`
}

// CreateShipmentRequest alta del envío de una solicitud aceptada.
type CreateShipmentRequest struct {
	RequestID            string    `json:"request_id"`
	Transportadora       string    `json:"transportadora"`
	FechaRecogida        time.Time `json:"fecha_recogida"`
	FechaEstimadaEntrega time.Time `json:"fecha_estimada_entrega"`
}

// AdvanceShipmentRequest avance de estado del envío. Pin solo es obligatorio
// para la transición Distribucion → Entregado.
type AdvanceShipmentRequest struct {
	Pin string `json:"pin,omitempty"`
}

// ShipmentResponse vista de un envío para una de las partes. PinEntrega solo
// se incluye cuando el consultante es el hospital receptor.
type ShipmentResponse struct {
	ID                   string     `json:"id"`
	SourceType           string     `json:"source_type"`
	SourceID             string     `json:"source_id"`
	Transportadora       string     `json:"transportadora"`
	FechaRecogida        time.Time  `json:"fecha_recogida"`
	FechaEstimadaEntrega time.Time  `json:"fecha_estimada_entrega"`
	Estado               string     `json:"estado"`
	PinEntrega           *string    `json:"pin_entrega,omitempty"`
	FechaEntrega         *time.Time `json:"fecha_entrega,omitempty"`
}
