package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

var _ repository.HospitalRepository = (*HospitalRepo)(nil)

// HospitalRepo lectura del directorio de hospitales (el portal no los administra).
type HospitalRepo struct {
	q Querier
}

// NewHospitalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHospitalRepository(q Querier) *HospitalRepo {
	return &HospitalRepo{q: q}
}

// GetByID obtiene un hospital por ID. Retorna nil, nil si no existe.
func (r *HospitalRepo) GetByID(id string) (*entity.Hospital, error) {
	query := `
		SELECT id, nombre, nit, ciudad, direccion, activo, created_at
		FROM hospitales WHERE id = $1`
	var h entity.Hospital
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&h.ID, &h.Nombre, &h.NIT, &h.Ciudad, &h.Direccion, &h.Activo, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get hospital: %w", err)
	}
	return &h, nil
}

// Exists indica si el hospital existe.
func (r *HospitalRepo) Exists(id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM hospitales WHERE id = $1)`
	var ok bool
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists hospital: %w", err)
	}
	return ok, nil
}

// IsActive indica si el hospital existe y está activo.
func (r *HospitalRepo) IsActive(id string) (bool, error) {
	query := `SELECT COALESCE((SELECT activo FROM hospitales WHERE id = $1), false)`
	var activo bool
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&activo); err != nil {
		return false, fmt.Errorf("is active hospital: %w", err)
	}
	return activo, nil
}

// List lista hospitales con paginación.
func (r *HospitalRepo) List(limit, offset int) ([]*entity.Hospital, error) {
	query := `
		SELECT id, nombre, nit, ciudad, direccion, activo, created_at
		FROM hospitales ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list hospitales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Hospital
	for rows.Next() {
		var h entity.Hospital
		if err := rows.Scan(&h.ID, &h.Nombre, &h.NIT, &h.Ciudad, &h.Direccion, &h.Activo, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hospital: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}
