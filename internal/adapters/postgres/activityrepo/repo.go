package activityrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/activityrepo"
)

// Repo is a Postgres implementation of activityrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a domain.Activity) error {
	activityUUID, tripUUID, err := parseIDs(a)
	if err != nil {
		return err
	}
	lat, lon := coordsOut(a.Coordinates)

	_, err = r.pool.Exec(ctx, `
		INSERT INTO activities (
			id, trip_id, name, activity_date, activity_time,
			description, address, latitude, longitude, price
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		activityUUID,
		tripUUID,
		a.Name,
		postgres.FromDate(a.Date),
		postgres.FromTimePtr(a.Time),
		a.Description.Ptr(),
		a.Address.Ptr(),
		lat,
		lon,
		a.Price.Ptr(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return activityrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, a domain.Activity) error {
	activityUUID, tripUUID, err := parseIDs(a)
	if err != nil {
		return err
	}
	lat, lon := coordsOut(a.Coordinates)

	tag, err := r.pool.Exec(ctx, `
		UPDATE activities
		SET trip_id = $2, name = $3, activity_date = $4, activity_time = $5,
		    description = $6, address = $7, latitude = $8, longitude = $9, price = $10
		WHERE id = $1
	`,
		activityUUID,
		tripUUID,
		a.Name,
		postgres.FromDate(a.Date),
		postgres.FromTimePtr(a.Time),
		a.Description.Ptr(),
		a.Address.Ptr(),
		lat,
		lon,
		a.Price.Ptr(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return activityrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ActivityID) (domain.Activity, error) {
	activityUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Activity{}, activityrepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, activityUUID)
	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, activityrepo.ErrNotFound
		}
		return domain.Activity{}, err
	}
	return a, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Activity, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Activity{}, nil
	}

	rows, err := r.pool.Query(ctx, selectColumns+`
		WHERE trip_id = $1
		ORDER BY activity_date, activity_time NULLS LAST, id
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.ActivityID) error {
	activityUUID, err := uuid.Parse(string(id))
	if err != nil {
		return activityrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, activityUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return activityrepo.ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, trip_id, name, activity_date, activity_time,
	       description, address, latitude, longitude, price
	FROM activities
`

func parseIDs(a domain.Activity) (activityUUID, tripUUID uuid.UUID, err error) {
	activityUUID, err = uuid.Parse(string(a.ID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid activity id: %w", err)
	}
	tripUUID, err = uuid.Parse(string(a.TripID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid trip id: %w", err)
	}
	return activityUUID, tripUUID, nil
}

func coordsOut(c *domain.Coordinates) (lat, lon *float64) {
	if c == nil {
		return nil, nil
	}
	return &c.Latitude, &c.Longitude
}

func coordsIn(lat, lon *float64) *domain.Coordinates {
	if lat == nil || lon == nil {
		return nil
	}
	return &domain.Coordinates{Latitude: *lat, Longitude: *lon}
}

func scanActivity(row pgx.Row) (domain.Activity, error) {
	var (
		id, trip       uuid.UUID
		name           string
		activityDate   time.Time
		activityTime   pgtype.Time
		descr, address *string
		lat, lon       *float64
		price          *int32
	)
	if err := row.Scan(&id, &trip, &name, &activityDate, &activityTime, &descr, &address, &lat, &lon, &price); err != nil {
		return domain.Activity{}, err
	}
	return domain.Activity{
		ID:          domain.ActivityID(id.String()),
		TripID:      domain.TripID(trip.String()),
		Name:        name,
		Date:        postgres.ToDate(activityDate),
		Time:        postgres.ToTimePtr(activityTime),
		Description: null.StringFromPtr(descr),
		Address:     null.StringFromPtr(address),
		Coordinates: coordsIn(lat, lon),
		Price:       null.Int32FromPtr(price),
	}, nil
}
