package triprepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	tripUUID, ownerUUID, err := parseIDs(t)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (id, owner_id, name, start_date, end_date, description, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		tripUUID,
		ownerUUID,
		t.Name,
		postgres.FromDate(t.StartDate),
		postgres.FromDate(t.EndDate),
		t.Description.Ptr(),
		t.ImageURL.Ptr(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, t domain.Trip) error {
	tripUUID, ownerUUID, err := parseIDs(t)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE trips
		SET owner_id = $2, name = $3, start_date = $4, end_date = $5, description = $6, image_url = $7
		WHERE id = $1
	`,
		tripUUID,
		ownerUUID,
		t.Name,
		postgres.FromDate(t.StartDate),
		postgres.FromDate(t.EndDate),
		t.Description.Ptr(),
		t.ImageURL.Ptr(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, start_date, end_date, description, image_url
		FROM trips
		WHERE id = $1
	`, tripUUID)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Trip, error) {
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return []domain.Trip{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, start_date, end_date, description, image_url
		FROM trips
		WHERE owner_id = $1
		ORDER BY start_date, id
	`, ownerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID) error {
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return triprepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func parseIDs(t domain.Trip) (tripUUID, ownerUUID uuid.UUID, err error) {
	tripUUID, err = uuid.Parse(string(t.ID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid trip id: %w", err)
	}
	ownerUUID, err = uuid.Parse(string(t.OwnerID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid owner id: %w", err)
	}
	return tripUUID, ownerUUID, nil
}

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		id, owner            uuid.UUID
		name                 string
		startDate, endDate   time.Time
		description, imageURL *string
	)
	if err := row.Scan(&id, &owner, &name, &startDate, &endDate, &description, &imageURL); err != nil {
		return domain.Trip{}, err
	}
	return domain.Trip{
		ID:          domain.TripID(id.String()),
		OwnerID:     domain.UserID(owner.String()),
		Name:        name,
		StartDate:   postgres.ToDate(startDate),
		EndDate:     postgres.ToDate(endDate),
		Description: null.StringFromPtr(description),
		ImageURL:    null.StringFromPtr(imageURL),
	}, nil
}
