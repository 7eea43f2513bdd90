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

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationSelect = `
	SELECT id, hospital_id, actor_id, titulo, mensaje, categoria,
	       referencia_tipo, referencia_id, leida, created_at
	FROM notificaciones`

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	err := row.Scan(
		&n.ID, &n.HospitalID, &n.ActorID, &n.Titulo, &n.Mensaje, &n.Categoria,
		&n.ReferenciaTipo, &n.ReferenciaID, &n.Leida, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepo) Create(n *entity.Notification) error {
	query := `
		INSERT INTO notificaciones (id, hospital_id, actor_id, titulo, mensaje, categoria,
		                            referencia_tipo, referencia_id, leida, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		n.ID, n.HospitalID, n.ActorID, n.Titulo, n.Mensaje, n.Categoria,
		n.ReferenciaTipo, n.ReferenciaID, n.Leida, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notificacion: %w", err)
	}
	return nil
}

// GetByID obtiene una notificación por ID. Retorna nil, nil si no existe.
func (r *NotificationRepo) GetByID(id string) (*entity.Notification, error) {
	n, err := scanNotification(r.q.QueryRow(context.Background(), notificationSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notificacion: %w", err)
	}
	return n, nil
}

// ListByHospital lista notificaciones del hospital, más recientes primero.
func (r *NotificationRepo) ListByHospital(hospitalID string, soloNoLeidas bool, limit, offset int) ([]*entity.Notification, error) {
	query := notificationSelect + ` WHERE hospital_id = $1`
	if soloNoLeidas {
		query += ` AND leida = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(context.Background(), query, hospitalID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notificaciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notificacion: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead marca leída una notificación del hospital dado. Idempotente: marcar
// una ya leída no es error; una ajena o inexistente sí.
func (r *NotificationRepo) MarkRead(id, hospitalID string) error {
	query := `UPDATE notificaciones SET leida = true WHERE id = $1 AND hospital_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, hospitalID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountUnread cuenta las notificaciones no leídas del hospital.
func (r *NotificationRepo) CountUnread(hospitalID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM notificaciones WHERE hospital_id = $1 AND leida = false`, hospitalID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
