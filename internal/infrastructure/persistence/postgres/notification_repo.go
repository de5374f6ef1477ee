package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

const notificationColumns = `id, user_id, type, message, read, created_at`

// NotificationRepo implements port.NotificationRepository.
type NotificationRepo struct {
	pool *pgxpool.Pool
}

// NewNotificationRepo creates a new repository backed by PostgreSQL.
func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

// Save inserts the notification or updates its read flag.
func (r *NotificationRepo) Save(ctx context.Context, n model.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET read = EXCLUDED.read`,
		n.ID(), n.UserID(), n.Type().String(), n.Message(), n.Read(), n.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) FindByID(ctx context.Context, id string) (model.Notification, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		return model.Notification{}, notFound(err, "notification "+id)
	}
	return n, nil
}

// ListByUser returns newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1 ORDER BY position DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	result := []model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func scanNotification(s scannable) (model.Notification, error) {
	var (
		id, userID, kindStr, message string
		read                         bool
		createdAt                    time.Time
	)
	if err := s.Scan(&id, &userID, &kindStr, &message, &read, &createdAt); err != nil {
		return model.Notification{}, err
	}
	kind, err := valueobject.NewNotificationType(kindStr)
	if err != nil {
		return model.Notification{}, fmt.Errorf("parse notification type: %w", err)
	}
	return model.ReconstructNotification(id, userID, kind, message, read, createdAt.UTC()), nil
}
