package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

var _ repository.EstadoRepository = (*EstadoRepo)(nil)

// EstadoRepo resuelve el catálogo de estados de referencia (tabla estados).
type EstadoRepo struct {
	q Querier
}

// NewEstadoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEstadoRepository(q Querier) *EstadoRepo {
	return &EstadoRepo{q: q}
}

// IDByName resuelve (dominio, nombre) -> id. Un estado nombrado ausente del
// catálogo es ErrConfigMissing: error de configuración, no de datos.
func (r *EstadoRepo) IDByName(dominio, nombre string) (int, error) {
	query := `SELECT id FROM estados WHERE dominio = $1 AND nombre = $2`
	var id int
	err := r.q.QueryRow(context.Background(), query, dominio, nombre).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("estado %s/%s: %w", dominio, nombre, domain.ErrConfigMissing)
		}
		return 0, fmt.Errorf("get estado: %w", err)
	}
	return id, nil
}
