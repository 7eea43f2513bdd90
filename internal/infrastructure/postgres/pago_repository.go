package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL.
// Los pagos son inmutables: solo inserción y lectura.
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentSelect = `
	SELECT p.id, p.solicitud_id, p.envio_id, p.monto, p.metodo, e.nombre, p.created_at
	FROM pagos p
	JOIN estados e ON e.id = p.estado_id`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.RequestID, &p.ShipmentID, &p.Monto, &p.Metodo, &p.Estado, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Create(pago *entity.Payment) error {
	query := `
		INSERT INTO pagos (id, solicitud_id, envio_id, monto, metodo, estado_id, created_at)
		VALUES ($1, $2, $3, $4, $5,
		        (SELECT id FROM estados WHERE dominio = 'pago' AND nombre = $6),
		        $7)`
	_, err := r.q.Exec(context.Background(), query,
		pago.ID, pago.RequestID, pago.ShipmentID, pago.Monto, pago.Metodo, pago.Estado, pago.CreatedAt)
	if err != nil {
		return fmt.Errorf("create pago: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID. Retorna nil, nil si no existe.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(context.Background(), paymentSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pago: %w", err)
	}
	return p, nil
}

// GetByRequestID obtiene el pago asociado a una solicitud, si existe.
func (r *PaymentRepo) GetByRequestID(requestID string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(context.Background(), paymentSelect+` WHERE p.solicitud_id = $1`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pago por solicitud: %w", err)
	}
	return p, nil
}
