package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de solicitud sobre una publicación.
const (
	RequestTipoCompra      = "compra"
	RequestTipoIntercambio = "intercambio"
	RequestTipoPrestamo    = "prestamo"
)

// Estados de una solicitud (catálogo estados, dominio "solicitud").
const (
	RequestEstadoPendiente = "Pendiente"
	RequestEstadoAceptada  = "Aceptada"
	RequestEstadoRechazada = "Rechazada"
)

// EstadoDomainSolicitud dominio del catálogo de estados para solicitudes.
const EstadoDomainSolicitud = "solicitud"

// Request es el reclamo de un hospital sobre una publicación. El payload
// depende del tipo: compra lleva precio propuesto, intercambio lleva
// medicamento y cantidad ofrecidos, préstamo lleva fecha de devolución.
// HospitalDestinoID es el dueño de la publicación, resuelto al crearla;
// HospitalOrigenID se estampa cuando se crea el envío asociado.
type Request struct {
	ID                string
	HospitalID        string // hospital solicitante
	HospitalDestinoID string // dueño de la publicación
	HospitalOrigenID  *string
	PublicationID     string
	Tipo              string
	PrecioPropuesto   *decimal.Decimal // compra
	MedOfrecido       string           // intercambio
	CantidadOfrecida  *decimal.Decimal // intercambio
	FechaDevolucion   *time.Time       // prestamo
	Estado            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
