package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowdesk/flowdesk/internal/domain"
)

var attachmentColumns = []string{
	"id", "task_id", "file_url", "file_name", "uploaded_by", "is_final", "created_at",
}

// AttachmentRepository handles database operations for the attachment ledger.
// The ledger is append-only: rows are created once and only the is_final flag
// is ever updated, at most once per attachment.
type AttachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository creates a new AttachmentRepository.
func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var att domain.Attachment
	err := row.Scan(
		&att.ID,
		&att.TaskID,
		&att.FileURL,
		&att.FileName,
		&att.UploadedBy,
		&att.IsFinal,
		&att.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("scan attachment: %w", err)
	}
	return &att, nil
}

// Create appends an attachment to the ledger.
func (r *AttachmentRepository) Create(ctx context.Context, att *domain.Attachment) (*domain.Attachment, error) {
	query, args, err := psql.
		Insert("attachments").
		Columns("task_id", "file_url", "file_name", "uploaded_by", "is_final").
		Values(att.TaskID, att.FileURL, att.FileName, att.UploadedBy, att.IsFinal).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for attachment: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&att.ID, &att.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}

	return att, nil
}

// ListByTask retrieves attachments for a task, optionally only deliverable
// candidates (is_final = true).
func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID string, finalOnly bool) ([]*domain.Attachment, error) {
	qb := psql.
		Select(attachmentColumns...).
		From("attachments").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC")

	if finalOnly {
		qb = qb.Where(sq.Eq{"is_final": true})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByTask query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*domain.Attachment
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return attachments, nil
}

// GetByID retrieves an attachment by ID.
func (r *AttachmentRepository) GetByID(ctx context.Context, attachmentID string) (*domain.Attachment, error) {
	query, args, err := psql.
		Select(attachmentColumns...).
		From("attachments").
		Where(sq.Eq{"id": attachmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for attachment: %w", err)
	}

	return scanAttachment(r.pool.QueryRow(ctx, query, args...))
}

// MarkFinal flips is_final to true. The flag can be set exactly once: marking
// an already-final attachment returns ErrAlreadyFinal.
func (r *AttachmentRepository) MarkFinal(ctx context.Context, attachmentID string) error {
	query, args, err := psql.
		Update("attachments").
		Set("is_final", true).
		Where(sq.Eq{
			"id":       attachmentID,
			"is_final": false,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkFinal query for attachment %s: %w", attachmentID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark attachment final: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM attachments WHERE id = $1)", attachmentID).Scan(&exists); err != nil {
			return fmt.Errorf("check attachment existence: %w", err)
		}
		if !exists {
			return domain.ErrAttachmentNotFound
		}
		return domain.ErrAlreadyFinal
	}

	return nil
}
