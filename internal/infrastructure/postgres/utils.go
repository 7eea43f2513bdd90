package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de violación de constraint único.
const codeUniqueViolation = "23505"

// isUniqueViolation detecta una violación de único para traducirla a un error
// de dominio: email duplicado en usuarios, segundo envío sobre el mismo
// respaldo en envios. Acepta errores ya envueltos con %w y, como último
// recurso, busca el código dentro del mensaje.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}
