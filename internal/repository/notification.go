package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowdesk/flowdesk/internal/domain"
)

// NotificationRepository handles database operations for notifications.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create creates a notification for a recipient.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query, args, err := psql.
		Insert("notifications").
		Columns("recipient_id", "title", "message", "link").
		Values(n.RecipientID, n.Title, n.Message, n.Link).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for notification: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListByRecipient retrieves notifications for a recipient, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error) {
	qb := psql.
		Select("id", "recipient_id", "title", "message", "link", "is_read", "created_at").
		From("notifications").
		Where(sq.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC")

	if unreadOnly {
		qb = qb.Where(sq.Eq{"is_read": false})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByRecipient query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return notifications, nil
}

// CountUnread returns the number of unread notifications for a recipient.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("notifications").
		Where(sq.Eq{"recipient_id": recipientID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build CountUnread query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead marks a notification as read. The recipient scope keeps one user
// from acknowledging another user's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	query, args, err := psql.
		Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{
			"id":           notificationID,
			"recipient_id": recipientID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkRead query for notification %s: %w", notificationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}
