package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository sobre PostgreSQL.
type ShipmentRepo struct {
	q Querier
}

func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentSelect = `
	SELECT v.id, v.source_type, v.source_id, v.transportadora, v.fecha_recogida,
	       v.fecha_estimada_entrega, v.fecha_entrega, v.pin_entrega,
	       e.nombre, v.created_at, v.updated_at
	FROM envios v
	JOIN estados e ON e.id = v.estado_id`

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var v entity.Shipment
	err := row.Scan(
		&v.ID, &v.SourceType, &v.SourceID, &v.Transportadora, &v.FechaRecogida,
		&v.FechaEstimadaEntrega, &v.FechaEntrega, &v.PinEntrega,
		&v.Estado, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ShipmentRepo) Create(env *entity.Shipment) error {
	query := `
		INSERT INTO envios (id, source_type, source_id, transportadora, fecha_recogida,
		                    fecha_estimada_entrega, fecha_entrega, pin_entrega,
		                    estado_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		        (SELECT id FROM estados WHERE dominio = 'envio' AND nombre = $9),
		        $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		env.ID, env.SourceType, env.SourceID, env.Transportadora, env.FechaRecogida,
		env.FechaEstimadaEntrega, env.FechaEntrega, env.PinEntrega,
		env.Estado, env.CreatedAt, env.UpdatedAt,
	)
	if err != nil {
		// UNIQUE(source_type, source_id): un respaldo admite un único envío.
		// Dos creaciones concurrentes sobre la misma solicitud o donación se
		// resuelven aquí aunque ambas pasen la verificación previa.
		if isUniqueViolation(err) {
			return domain.ErrInvalidState
		}
		return fmt.Errorf("create envio: %w", err)
	}
	return nil
}

// GetByID obtiene un envío por ID. Retorna nil, nil si no existe.
func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	env, err := scanShipment(r.q.QueryRow(context.Background(), shipmentSelect+` WHERE v.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get envio: %w", err)
	}
	return env, nil
}

// GetBySource obtiene el envío asociado a una solicitud o donación.
func (r *ShipmentRepo) GetBySource(sourceType, sourceID string) (*entity.Shipment, error) {
	query := shipmentSelect + ` WHERE v.source_type = $1 AND v.source_id = $2`
	env, err := scanShipment(r.q.QueryRow(context.Background(), query, sourceType, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get envio por origen: %w", err)
	}
	return env, nil
}

// AdvanceIf avanza el envío solo si sigue en el estado esperado. El pin y la
// fecha de entrega se escriben únicamente cuando la transición los aporta
// (COALESCE preserva los valores previos).
func (r *ShipmentRepo) AdvanceIf(id string, expectedEstadoID, newEstadoID int, pin *string, fechaEntrega *time.Time) error {
	query := `
		UPDATE envios
		SET estado_id = $1,
		    pin_entrega = COALESCE($2, pin_entrega),
		    fecha_entrega = COALESCE($3, fecha_entrega),
		    updated_at = now()
		WHERE id = $4 AND estado_id = $5`
	tag, err := r.q.Exec(context.Background(), query, newEstadoID, pin, fechaEntrega, id, expectedEstadoID)
	if err != nil {
		return fmt.Errorf("advance envio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(context.Background(),
			`SELECT EXISTS(SELECT 1 FROM envios WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check envio: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidState
	}
	return nil
}
