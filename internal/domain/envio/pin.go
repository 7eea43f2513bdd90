// Package envio implementa el módulo de confirmación de entrega: generación y
// verificación del PIN de 4 dígitos que prueba la entrega física del envío.
// El PIN se muestra únicamente al hospital receptor; el emisor debe obtenerlo
// en la entrega y presentarlo para cerrar el envío.
package envio

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/intercambiomed/intercambio-api/internal/domain"
)

// PinLength longitud fija del PIN de entrega.
const PinLength = 4

// GeneratePin genera un PIN numérico de 4 dígitos. Cada dígito se extrae de
// forma independiente de crypto/rand; se permite el cero inicial.
func GeneratePin() (string, error) {
	pin := make([]byte, PinLength)
	for i := range pin {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generar pin: %w", err)
		}
		pin[i] = byte('0' + n.Int64())
	}
	return string(pin), nil
}

// ValidatePinFormat verifica que el valor sea exactamente 4 dígitos ASCII.
// Un formato inválido es un error de validación, no un PIN incorrecto.
func ValidatePinFormat(pin string) error {
	if len(pin) != PinLength {
		return domain.ErrInvalidInput
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// VerifyPin compara el PIN presentado contra el almacenado, byte a byte.
// Retorna ErrInvalidInput si el candidato está mal formado y ErrInvalidPin si
// está bien formado pero no coincide.
func VerifyPin(candidato, almacenado string) error {
	if err := ValidatePinFormat(candidato); err != nil {
		return err
	}
	if candidato != almacenado {
		return domain.ErrInvalidPin
	}
	return nil
}
