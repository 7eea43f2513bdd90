package entity

import (
	"time"

	"github.com/intercambiomed/intercambio-api/internal/domain"
)

// Estados de un envío, en orden estricto de avance. Entregado es terminal.
const (
	ShipmentEstadoEmpaque      = "Empaque"
	ShipmentEstadoEnTransito   = "EnTransito"
	ShipmentEstadoDistribucion = "Distribucion"
	ShipmentEstadoEntregado    = "Entregado"
)

// EstadoDomainEnvio dominio del catálogo de estados para envíos.
const EstadoDomainEnvio = "envio"

// Origen del envío: respaldado por una solicitud aceptada o por una donación
// reclamada. Se modela como unión etiquetada (SourceType + SourceID) en lugar
// de dos relaciones opcionales.
const (
	ShipmentSourceSolicitud = "solicitud"
	ShipmentSourceDonacion  = "donacion"
)

// Shipment es el registro de cumplimiento físico de un intercambio. Avanza
// Empaque → EnTransito → Distribucion → Entregado, sin saltos ni retrocesos,
// y solo por orden del hospital que envía. Al entrar en Distribucion se
// genera el PIN de entrega; Entregado exige el PIN exacto.
type Shipment struct {
	ID                   string
	SourceType           string // solicitud | donacion
	SourceID             string
	Transportadora       string
	FechaRecogida        time.Time
	FechaEstimadaEntrega time.Time
	Estado               string
	PinEntrega           *string // nil hasta entrar en Distribucion
	FechaEntrega         *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// shipmentOrder orden estricto de estados de envío.
var shipmentOrder = []string{
	ShipmentEstadoEmpaque,
	ShipmentEstadoEnTransito,
	ShipmentEstadoDistribucion,
	ShipmentEstadoEntregado,
}

// NextShipmentEstado devuelve el estado siguiente en el orden estricto.
// Retorna ErrInvalidState si el estado actual es terminal o desconocido.
func NextShipmentEstado(actual string) (string, error) {
	for i, s := range shipmentOrder {
		if s == actual {
			if i == len(shipmentOrder)-1 {
				return "", domain.ErrInvalidState // Entregado es terminal
			}
			return shipmentOrder[i+1], nil
		}
	}
	return "", domain.ErrInvalidState
}

// ShipmentRoles identifica quién envía y quién recibe un envío concreto.
type ShipmentRoles struct {
	EmisorID   string // hospital "enviando": único autorizado a avanzar el estado
	ReceptorID string // hospital "recibiendo": único que puede leer el PIN
}

// RolesFromRequest resuelve los roles de un envío respaldado por solicitud:
// envía el dueño de la publicación, recibe el hospital solicitante.
func RolesFromRequest(req *Request) ShipmentRoles {
	return ShipmentRoles{EmisorID: req.HospitalDestinoID, ReceptorID: req.HospitalID}
}

// RolesFromDonation resuelve los roles de un envío respaldado por donación:
// envía el donante, recibe el hospital que la reclamó.
func RolesFromDonation(don *Donation) ShipmentRoles {
	r := ShipmentRoles{EmisorID: don.HospitalID}
	if don.HospitalOrigenID != nil {
		r.ReceptorID = *don.HospitalOrigenID
	}
	return r
}

// EsEmisor indica si el hospital dado es la parte que envía.
func (r ShipmentRoles) EsEmisor(hospitalID string) bool {
	return hospitalID != "" && hospitalID == r.EmisorID
}

// EsReceptor indica si el hospital dado es la parte que recibe.
func (r ShipmentRoles) EsReceptor(hospitalID string) bool {
	return hospitalID != "" && hospitalID == r.ReceptorID
}
