package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
)

// Ensure TxRunner implements exchange.TxRunner.
var _ exchange.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la
// frontera de atomicidad del motor de intercambio: todo lo que el callback
// escribe (transiciones condicionadas + notificaciones) confirma o revierte
// como unidad.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos exchange.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := exchange.TxRepos{
		Publications:  NewPublicationRepository(tx),
		Donations:     NewDonationRepository(tx),
		Requests:      NewRequestRepository(tx),
		Shipments:     NewShipmentRepository(tx),
		Payments:      NewPaymentRepository(tx),
		Notifications: NewNotificationRepository(tx),
		Estados:       NewEstadoRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
