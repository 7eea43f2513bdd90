package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación de RequestRepository sobre PostgreSQL (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestSelect = `
	SELECT s.id, s.hospital_id, s.hospital_destino_id, s.hospital_origen_id, s.publicacion_id,
	       s.tipo, s.precio_propuesto, s.med_ofrecido, s.cantidad_ofrecida, s.fecha_devolucion,
	       e.nombre, s.created_at, s.updated_at
	FROM solicitudes s
	JOIN estados e ON e.id = s.estado_id`

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var s entity.Request
	err := row.Scan(
		&s.ID, &s.HospitalID, &s.HospitalDestinoID, &s.HospitalOrigenID, &s.PublicationID,
		&s.Tipo, &s.PrecioPropuesto, &s.MedOfrecido, &s.CantidadOfrecida, &s.FechaDevolucion,
		&s.Estado, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la solicitud resolviendo el estado por nombre contra el catálogo.
func (r *RequestRepo) Create(req *entity.Request) error {
	query := `
		INSERT INTO solicitudes (id, hospital_id, hospital_destino_id, hospital_origen_id, publicacion_id,
		                         tipo, precio_propuesto, med_ofrecido, cantidad_ofrecida, fecha_devolucion,
		                         estado_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        (SELECT id FROM estados WHERE dominio = 'solicitud' AND nombre = $11),
		        $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.HospitalID, req.HospitalDestinoID, req.HospitalOrigenID, req.PublicationID,
		req.Tipo, req.PrecioPropuesto, req.MedOfrecido, req.CantidadOfrecida, req.FechaDevolucion,
		req.Estado, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create solicitud: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. Retorna nil, nil si no existe.
func (r *RequestRepo) GetByID(id string) (*entity.Request, error) {
	req, err := scanRequest(r.q.QueryRow(context.Background(), requestSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	return req, nil
}

// ListByPublication lista las solicitudes sobre una publicación.
func (r *RequestRepo) ListByPublication(publicationID string) ([]*entity.Request, error) {
	query := requestSelect + ` WHERE s.publicacion_id = $1 ORDER BY s.created_at`
	return r.list(query, publicationID)
}

// ListByHospital lista las solicitudes creadas por un hospital.
func (r *RequestRepo) ListByHospital(hospitalID string, limit, offset int) ([]*entity.Request, error) {
	query := requestSelect + ` WHERE s.hospital_id = $1 ORDER BY s.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, hospitalID, limit, offset)
}

func (r *RequestRepo) list(query string, args ...any) ([]*entity.Request, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Request
	for rows.Next() {
		s, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DecideIf resuelve la solicitud solo si sigue en el estado esperado
// (Pendiente). Cero filas: id inexistente -> ErrNotFound; ya decidida ->
// ErrInvalidState.
func (r *RequestRepo) DecideIf(id string, expectedEstadoID, newEstadoID int) error {
	query := `UPDATE solicitudes SET estado_id = $1, updated_at = now() WHERE id = $2 AND estado_id = $3`
	tag, err := r.q.Exec(context.Background(), query, newEstadoID, id, expectedEstadoID)
	if err != nil {
		return fmt.Errorf("decide solicitud: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(context.Background(),
			`SELECT EXISTS(SELECT 1 FROM solicitudes WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check solicitud: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidState
	}
	return nil
}

// UpdateHospitalOrigen estampa el hospital de origen del envío asociado.
func (r *RequestRepo) UpdateHospitalOrigen(id, hospitalID string) error {
	query := `UPDATE solicitudes SET hospital_origen_id = $1, updated_at = now() WHERE id = $2`
	tag, err := r.q.Exec(context.Background(), query, hospitalID, id)
	if err != nil {
		return fmt.Errorf("update hospital origen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
