package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de un pago. Los pagos se liquidan externamente: el registro nace
// Completado y es inmutable.
const PaymentEstadoCompletado = "Completado"

// Payment registra el pago liquidado de una solicitud prioritaria. Se crea en
// la misma transacción que la solicitud y su envío expedito.
type Payment struct {
	ID         string
	RequestID  string
	ShipmentID string
	Monto      decimal.Decimal
	Metodo     string // transferencia, PSE, convenio...
	Estado     string
	CreatedAt  time.Time
}
