package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Errores del ciclo de vida de intercambio.
	ErrInvalidState     = errors.New("el estado actual no permite la operación")
	ErrSelfClaim        = errors.New("un hospital no puede solicitar su propia donación")
	ErrInvalidPin       = errors.New("pin de entrega incorrecto")
	ErrConfigMissing    = errors.New("estado de referencia no configurado")
	ErrHospitalInactive = errors.New("el hospital no está activo")
)
