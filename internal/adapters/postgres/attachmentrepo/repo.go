package attachmentrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/attachmentrepo"
)

// Repo is a Postgres implementation of attachmentrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a domain.Attachment) error {
	attachmentUUID, err := uuid.Parse(string(a.ID))
	if err != nil {
		return fmt.Errorf("invalid attachment id: %w", err)
	}
	tripUUID, err := uuid.Parse(string(a.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO attachments (id, trip_id, name, content_type, blob)
		VALUES ($1, $2, $3, $4, $5)
	`, attachmentUUID, tripUUID, a.Name, a.ContentType, a.Blob)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return attachmentrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AttachmentID) (domain.Attachment, error) {
	attachmentUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Attachment{}, attachmentrepo.ErrNotFound
	}

	var (
		aid, trip         uuid.UUID
		name, contentType string
		blob              []byte
	)
	err = r.pool.QueryRow(ctx, `
		SELECT id, trip_id, name, content_type, blob FROM attachments WHERE id = $1
	`, attachmentUUID).Scan(&aid, &trip, &name, &contentType, &blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Attachment{}, attachmentrepo.ErrNotFound
		}
		return domain.Attachment{}, err
	}
	return domain.Attachment{
		ID:          domain.AttachmentID(aid.String()),
		TripID:      domain.TripID(trip.String()),
		Name:        name,
		ContentType: contentType,
		Blob:        blob,
	}, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.AttachmentInfo, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.AttachmentInfo{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, trip_id, name, content_type, length(blob)
		FROM attachments
		WHERE trip_id = $1
		ORDER BY name, id
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AttachmentInfo, 0)
	for rows.Next() {
		var (
			aid, trip         uuid.UUID
			name, contentType string
			size              int64
		)
		if err := rows.Scan(&aid, &trip, &name, &contentType, &size); err != nil {
			return nil, err
		}
		out = append(out, domain.AttachmentInfo{
			ID:          domain.AttachmentID(aid.String()),
			TripID:      domain.TripID(trip.String()),
			Name:        name,
			ContentType: contentType,
			Size:        size,
		})
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.AttachmentID) error {
	attachmentUUID, err := uuid.Parse(string(id))
	if err != nil {
		return attachmentrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, attachmentUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attachmentrepo.ErrNotFound
	}
	return nil
}
