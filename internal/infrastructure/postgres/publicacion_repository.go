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

var _ repository.PublicationRepository = (*PublicationRepo)(nil)

// PublicationRepo implementación de PublicationRepository sobre PostgreSQL
// (usable con pool o tx). El estado se persiste como estado_id contra el
// catálogo estados y se expone por nombre.
type PublicationRepo struct {
	q Querier
}

// NewPublicationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPublicationRepository(q Querier) *PublicationRepo {
	return &PublicationRepo{q: q}
}

const publicationSelect = `
	SELECT p.id, p.hospital_id, p.medicamento_id, p.cantidad, p.unidad,
	       p.fecha_vencimiento, e.nombre, p.created_at, p.updated_at
	FROM publicaciones p
	JOIN estados e ON e.id = p.estado_id`

func scanPublication(row pgx.Row) (*entity.Publication, error) {
	var p entity.Publication
	err := row.Scan(
		&p.ID, &p.HospitalID, &p.MedicationID, &p.Cantidad, &p.Unidad,
		&p.FechaVencimiento, &p.Estado, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la publicación resolviendo el estado por nombre contra el catálogo.
func (r *PublicationRepo) Create(pub *entity.Publication) error {
	query := `
		INSERT INTO publicaciones (id, hospital_id, medicamento_id, cantidad, unidad, fecha_vencimiento, estado_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT id FROM estados WHERE dominio = 'publicacion' AND nombre = $7),
		        $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		pub.ID, pub.HospitalID, pub.MedicationID, pub.Cantidad, pub.Unidad,
		pub.FechaVencimiento, pub.Estado, pub.CreatedAt, pub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create publicacion: %w", err)
	}
	return nil
}

// GetByID obtiene una publicación por ID. Retorna nil, nil si no existe.
func (r *PublicationRepo) GetByID(id string) (*entity.Publication, error) {
	pub, err := scanPublication(r.q.QueryRow(context.Background(), publicationSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get publicacion: %w", err)
	}
	return pub, nil
}

// List lista publicaciones; estado vacío lista todas.
func (r *PublicationRepo) List(estado string, limit, offset int) ([]*entity.Publication, error) {
	query := publicationSelect + ` WHERE ($1 = '' OR e.nombre = $1) ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, estado, limit, offset)
}

// ListByHospital lista las publicaciones de un hospital.
func (r *PublicationRepo) ListByHospital(hospitalID string, limit, offset int) ([]*entity.Publication, error) {
	query := publicationSelect + ` WHERE p.hospital_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, hospitalID, limit, offset)
}

func (r *PublicationRepo) list(query string, args ...any) ([]*entity.Publication, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publicaciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan publicacion: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateEstadoIf transición condicionada al estado esperado: la primitiva de
// exclusión del motor. Cero filas afectadas se desambigua con una lectura:
// id inexistente -> ErrNotFound; estado ya cambiado (carrera perdida) ->
// ErrInvalidState.
func (r *PublicationRepo) UpdateEstadoIf(id string, expectedEstadoID, newEstadoID int) error {
	query := `UPDATE publicaciones SET estado_id = $1, updated_at = now() WHERE id = $2 AND estado_id = $3`
	tag, err := r.q.Exec(context.Background(), query, newEstadoID, id, expectedEstadoID)
	if err != nil {
		return fmt.Errorf("update estado publicacion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(context.Background(),
			`SELECT EXISTS(SELECT 1 FROM publicaciones WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check publicacion: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidState
	}
	return nil
}
