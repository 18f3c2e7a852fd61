package stayrepo

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
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/stayrepo"
)

// Repo is a Postgres implementation of stayrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a domain.Accommodation) error {
	stayUUID, tripUUID, err := parseIDs(a)
	if err != nil {
		return err
	}
	lat, lon := coordsOut(a.Coordinates)

	_, err = r.pool.Exec(ctx, `
		INSERT INTO accommodations (
			id, trip_id, name, arrival_date, departure_date,
			check_in_time, check_out_time, description, address,
			latitude, longitude, price
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		stayUUID,
		tripUUID,
		a.Name,
		postgres.FromDate(a.ArrivalDate),
		postgres.FromDate(a.DepartureDate),
		postgres.FromTimePtr(a.CheckInTime),
		postgres.FromTimePtr(a.CheckOutTime),
		a.Description.Ptr(),
		a.Address.Ptr(),
		lat,
		lon,
		a.Price.Ptr(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return stayrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, a domain.Accommodation) error {
	stayUUID, tripUUID, err := parseIDs(a)
	if err != nil {
		return err
	}
	lat, lon := coordsOut(a.Coordinates)

	tag, err := r.pool.Exec(ctx, `
		UPDATE accommodations
		SET trip_id = $2, name = $3, arrival_date = $4, departure_date = $5,
		    check_in_time = $6, check_out_time = $7, description = $8, address = $9,
		    latitude = $10, longitude = $11, price = $12
		WHERE id = $1
	`,
		stayUUID,
		tripUUID,
		a.Name,
		postgres.FromDate(a.ArrivalDate),
		postgres.FromDate(a.DepartureDate),
		postgres.FromTimePtr(a.CheckInTime),
		postgres.FromTimePtr(a.CheckOutTime),
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
		return stayrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AccommodationID) (domain.Accommodation, error) {
	stayUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Accommodation{}, stayrepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, stayUUID)
	a, err := scanStay(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Accommodation{}, stayrepo.ErrNotFound
		}
		return domain.Accommodation{}, err
	}
	return a, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Accommodation, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Accommodation{}, nil
	}

	rows, err := r.pool.Query(ctx, selectColumns+`
		WHERE trip_id = $1
		ORDER BY arrival_date, id
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Accommodation, 0)
	for rows.Next() {
		a, err := scanStay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.AccommodationID) error {
	stayUUID, err := uuid.Parse(string(id))
	if err != nil {
		return stayrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM accommodations WHERE id = $1`, stayUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return stayrepo.ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, trip_id, name, arrival_date, departure_date,
	       check_in_time, check_out_time, description, address,
	       latitude, longitude, price
	FROM accommodations
`

func parseIDs(a domain.Accommodation) (stayUUID, tripUUID uuid.UUID, err error) {
	stayUUID, err = uuid.Parse(string(a.ID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid accommodation id: %w", err)
	}
	tripUUID, err = uuid.Parse(string(a.TripID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid trip id: %w", err)
	}
	return stayUUID, tripUUID, nil
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

func scanStay(row pgx.Row) (domain.Accommodation, error) {
	var (
		id, trip           uuid.UUID
		name               string
		arrival, departure time.Time
		checkIn, checkOut  pgtype.Time
		descr, address     *string
		lat, lon           *float64
		price              *int32
	)
	if err := row.Scan(&id, &trip, &name, &arrival, &departure, &checkIn, &checkOut, &descr, &address, &lat, &lon, &price); err != nil {
		return domain.Accommodation{}, err
	}
	return domain.Accommodation{
		ID:            domain.AccommodationID(id.String()),
		TripID:        domain.TripID(trip.String()),
		Name:          name,
		ArrivalDate:   postgres.ToDate(arrival),
		DepartureDate: postgres.ToDate(departure),
		CheckInTime:   postgres.ToTimePtr(checkIn),
		CheckOutTime:  postgres.ToTimePtr(checkOut),
		Description:   null.StringFromPtr(descr),
		Address:       null.StringFromPtr(address),
		Coordinates:   coordsIn(lat, lon),
		Price:         null.Int32FromPtr(price),
	}, nil
}
