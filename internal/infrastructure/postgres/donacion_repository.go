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

var _ repository.DonationRepository = (*DonationRepo)(nil)

// DonationRepo implementación de DonationRepository sobre PostgreSQL (usable con pool o tx).
type DonationRepo struct {
	q Querier
}

// NewDonationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDonationRepository(q Querier) *DonationRepo {
	return &DonationRepo{q: q}
}

const donationSelect = `
	SELECT d.id, d.hospital_id, d.hospital_origen_id, d.medicamento_id, d.cantidad,
	       d.unidad, d.fecha_vencimiento, e.nombre, d.created_at, d.updated_at
	FROM donaciones d
	JOIN estados e ON e.id = d.estado_id`

func scanDonation(row pgx.Row) (*entity.Donation, error) {
	var d entity.Donation
	err := row.Scan(
		&d.ID, &d.HospitalID, &d.HospitalOrigenID, &d.MedicationID, &d.Cantidad,
		&d.Unidad, &d.FechaVencimiento, &d.Estado, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste la donación resolviendo el estado por nombre contra el catálogo.
func (r *DonationRepo) Create(don *entity.Donation) error {
	query := `
		INSERT INTO donaciones (id, hospital_id, hospital_origen_id, medicamento_id, cantidad, unidad, fecha_vencimiento, estado_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        (SELECT id FROM estados WHERE dominio = 'donacion' AND nombre = $8),
		        $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		don.ID, don.HospitalID, don.HospitalOrigenID, don.MedicationID, don.Cantidad,
		don.Unidad, don.FechaVencimiento, don.Estado, don.CreatedAt, don.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create donacion: %w", err)
	}
	return nil
}

// GetByID obtiene una donación por ID. Retorna nil, nil si no existe.
func (r *DonationRepo) GetByID(id string) (*entity.Donation, error) {
	don, err := scanDonation(r.q.QueryRow(context.Background(), donationSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get donacion: %w", err)
	}
	return don, nil
}

// List lista donaciones; estado vacío lista todas.
func (r *DonationRepo) List(estado string, limit, offset int) ([]*entity.Donation, error) {
	query := donationSelect + ` WHERE ($1 = '' OR e.nombre = $1) ORDER BY d.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, estado, limit, offset)
}

// ListByHospital lista las donaciones publicadas por un hospital.
func (r *DonationRepo) ListByHospital(hospitalID string, limit, offset int) ([]*entity.Donation, error) {
	query := donationSelect + ` WHERE d.hospital_id = $1 ORDER BY d.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, hospitalID, limit, offset)
}

func (r *DonationRepo) list(query string, args ...any) ([]*entity.Donation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donaciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donacion: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ClaimIf transición condicionada que además estampa el hospital receptor.
// Solo quien observe el estado esperado logra el reclamo; el perdedor de la
// carrera recibe ErrInvalidState.
func (r *DonationRepo) ClaimIf(id string, expectedEstadoID, newEstadoID int, hospitalOrigenID string) error {
	query := `
		UPDATE donaciones SET estado_id = $1, hospital_origen_id = $2, updated_at = now()
		WHERE id = $3 AND estado_id = $4`
	tag, err := r.q.Exec(context.Background(), query, newEstadoID, hospitalOrigenID, id, expectedEstadoID)
	if err != nil {
		return fmt.Errorf("claim donacion: %w", err)
	}
	return r.resolveZeroRows(tag.RowsAffected(), id)
}

// UpdateEstadoIf transición condicionada sin estampar receptor.
func (r *DonationRepo) UpdateEstadoIf(id string, expectedEstadoID, newEstadoID int) error {
	query := `UPDATE donaciones SET estado_id = $1, updated_at = now() WHERE id = $2 AND estado_id = $3`
	tag, err := r.q.Exec(context.Background(), query, newEstadoID, id, expectedEstadoID)
	if err != nil {
		return fmt.Errorf("update estado donacion: %w", err)
	}
	return r.resolveZeroRows(tag.RowsAffected(), id)
}

// resolveZeroRows desambigua cero filas afectadas: id inexistente vs carrera perdida.
func (r *DonationRepo) resolveZeroRows(affected int64, id string) error {
	if affected > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM donaciones WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check donacion: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidState
}
