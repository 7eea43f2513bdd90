package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

var _ repository.MedicationRepository = (*MedicationRepo)(nil)

// MedicationRepo lectura del catálogo de medicamentos (poblado por cmd/seed_meds).
type MedicationRepo struct {
	q Querier
}

// NewMedicationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicationRepository(q Querier) *MedicationRepo {
	return &MedicationRepo{q: q}
}

// GetByID obtiene un medicamento por ID. Retorna nil, nil si no existe.
func (r *MedicationRepo) GetByID(id string) (*entity.Medication, error) {
	query := `
		SELECT id, cum, nombre, forma, concentracion
		FROM medicamentos WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByCUM obtiene un medicamento por su código CUM.
func (r *MedicationRepo) GetByCUM(cum string) (*entity.Medication, error) {
	query := `
		SELECT id, cum, nombre, forma, concentracion
		FROM medicamentos WHERE cum = $1`
	return r.scanOne(query, cum)
}

func (r *MedicationRepo) scanOne(query string, arg any) (*entity.Medication, error) {
	var m entity.Medication
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&m.ID, &m.CUM, &m.Nombre, &m.Forma, &m.Concentracion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicamento: %w", err)
	}
	return &m, nil
}

// List lista el catálogo con paginación.
func (r *MedicationRepo) List(limit, offset int) ([]*entity.Medication, error) {
	query := `
		SELECT id, cum, nombre, forma, concentracion
		FROM medicamentos ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicamentos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Medication
	for rows.Next() {
		var m entity.Medication
		if err := rows.Scan(&m.ID, &m.CUM, &m.Nombre, &m.Forma, &m.Concentracion); err != nil {
			return nil, fmt.Errorf("scan medicamento: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
