package transportrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/transportrepo"
)

// Repo is a Postgres implementation of transportrepo.Repository.
//
// The transportation row carries the kind tag, price and the inline generic
// payload; flight and train legs plus booking references live in child tables
// keyed by position. Writes replace the children wholesale inside one
// transaction.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t domain.Transportation) error {
	transportUUID, tripUUID, err := parseIDs(t)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		args := genericArgs(t.Generic)
		_, err := tx.Exec(ctx, `
			INSERT INTO transportation (
				id, trip_id, kind, price,
				generic_name, generic_mode, generic_departure, generic_arrival,
				generic_origin_address, generic_destination_address,
				generic_origin_lat, generic_origin_lon,
				generic_destination_lat, generic_destination_lon
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`, append([]any{transportUUID, tripUUID, string(t.Kind), t.Price.Ptr()}, args...)...)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return transportrepo.ErrAlreadyExists
			}
			return err
		}
		return insertChildren(ctx, tx, transportUUID, t)
	})
}

func (r *Repo) Update(ctx context.Context, t domain.Transportation) error {
	transportUUID, tripUUID, err := parseIDs(t)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		args := genericArgs(t.Generic)
		tag, err := tx.Exec(ctx, `
			UPDATE transportation
			SET trip_id = $2, kind = $3, price = $4,
			    generic_name = $5, generic_mode = $6,
			    generic_departure = $7, generic_arrival = $8,
			    generic_origin_address = $9, generic_destination_address = $10,
			    generic_origin_lat = $11, generic_origin_lon = $12,
			    generic_destination_lat = $13, generic_destination_lon = $14
			WHERE id = $1
		`, append([]any{transportUUID, tripUUID, string(t.Kind), t.Price.Ptr()}, args...)...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return transportrepo.ErrNotFound
		}

		for _, table := range []string{"flight_legs", "train_legs", "booking_refs"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE transportation_id = $1`, transportUUID); err != nil {
				return err
			}
		}
		return insertChildren(ctx, tx, transportUUID, t)
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.TransportationID) (domain.Transportation, error) {
	transportUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Transportation{}, transportrepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, transportUUID)
	t, err := scanTransportation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transportation{}, transportrepo.ErrNotFound
		}
		return domain.Transportation{}, err
	}
	if err := r.loadChildren(ctx, []*domain.Transportation{&t}); err != nil {
		return domain.Transportation{}, err
	}
	return t, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Transportation, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Transportation{}, nil
	}

	rows, err := r.pool.Query(ctx, selectColumns+` WHERE trip_id = $1`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Transportation, 0)
	for rows.Next() {
		t, err := scanTransportation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Transportation, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadChildren(ctx, refs); err != nil {
		return nil, err
	}
	sortByDeparture(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.TransportationID) error {
	transportUUID, err := uuid.Parse(string(id))
	if err != nil {
		return transportrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM transportation WHERE id = $1`, transportUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return transportrepo.ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, trip_id, kind, price,
	       generic_name, generic_mode, generic_departure, generic_arrival,
	       generic_origin_address, generic_destination_address,
	       generic_origin_lat, generic_origin_lon,
	       generic_destination_lat, generic_destination_lon
	FROM transportation
`

func parseIDs(t domain.Transportation) (transportUUID, tripUUID uuid.UUID, err error) {
	transportUUID, err = uuid.Parse(string(t.ID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid transportation id: %w", err)
	}
	tripUUID, err = uuid.Parse(string(t.TripID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid trip id: %w", err)
	}
	return transportUUID, tripUUID, nil
}

func genericArgs(g *domain.GenericDetail) []any {
	if g == nil {
		return []any{nil, nil, nil, nil, nil, nil, nil, nil, nil, nil}
	}
	dep := postgres.FromDateTime(g.Departure)
	arr := postgres.FromDateTime(g.Arrival)
	originLat, originLon := coordsOut(g.Origin)
	destLat, destLon := coordsOut(g.Destination)
	return []any{
		g.Name, string(g.Mode), dep, arr,
		g.OriginAddress.Ptr(), g.DestinationAddress.Ptr(),
		originLat, originLon, destLat, destLon,
	}
}

func insertChildren(ctx context.Context, tx pgx.Tx, transportUUID uuid.UUID, t domain.Transportation) error {
	if t.Flight != nil {
		for i, leg := range t.Flight.Legs {
			originLat, originLon := coordsOut(leg.Origin.Coordinates)
			destLat, destLon := coordsOut(leg.Destination.Coordinates)
			_, err := tx.Exec(ctx, `
				INSERT INTO flight_legs (
					transportation_id, position,
					origin_iata, origin_name, origin_municipality, origin_lat, origin_lon,
					destination_iata, destination_name, destination_municipality, destination_lat, destination_lon,
					airline, flight_number, departure, arrival, duration_minutes, aircraft
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
			`,
				transportUUID, i,
				leg.Origin.IATA, leg.Origin.Name, leg.Origin.Municipality, originLat, originLon,
				leg.Destination.IATA, leg.Destination.Name, leg.Destination.Municipality, destLat, destLon,
				leg.Airline, leg.FlightNumber,
				postgres.FromDateTime(leg.Departure), postgres.FromDateTime(leg.Arrival),
				leg.DurationMinutes, leg.Aircraft.Ptr(),
			)
			if err != nil {
				return err
			}
		}
		for i, ref := range t.Flight.BookingRefs {
			_, err := tx.Exec(ctx, `
				INSERT INTO booking_refs (transportation_id, position, airline, reference)
				VALUES ($1,$2,$3,$4)
			`, transportUUID, i, ref.Airline, ref.Reference)
			if err != nil {
				return err
			}
		}
	}
	if t.Train != nil {
		for i, leg := range t.Train.Legs {
			originLat, originLon := coordsOut(leg.Origin.Coordinates)
			destLat, destLon := coordsOut(leg.Destination.Coordinates)
			_, err := tx.Exec(ctx, `
				INSERT INTO train_legs (
					transportation_id, position,
					origin_id, origin_name, origin_lat, origin_lon,
					destination_id, destination_name, destination_lat, destination_lon,
					departure, arrival, duration_minutes, line_name, operator_name
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			`,
				transportUUID, i,
				leg.Origin.ID, leg.Origin.Name, originLat, originLon,
				leg.Destination.ID, leg.Destination.Name, destLat, destLon,
				postgres.FromDateTime(leg.Departure), postgres.FromDateTime(leg.Arrival),
				leg.DurationMinutes, leg.LineName, leg.OperatorName,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func scanTransportation(row pgx.Row) (domain.Transportation, error) {
	var (
		id, trip                 uuid.UUID
		kind                     string
		price                    *int32
		genericName, genericMode *string
		dep, arr                 *time.Time
		originAddr, destAddr     *string
		originLat, originLon     *float64
		destLat, destLon         *float64
	)
	err := row.Scan(&id, &trip, &kind, &price,
		&genericName, &genericMode, &dep, &arr,
		&originAddr, &destAddr,
		&originLat, &originLon, &destLat, &destLon)
	if err != nil {
		return domain.Transportation{}, err
	}

	t := domain.Transportation{
		ID:     domain.TransportationID(id.String()),
		TripID: domain.TripID(trip.String()),
		Kind:   domain.TransportationKind(kind),
		Price:  null.Int32FromPtr(price),
	}
	switch t.Kind {
	case domain.KindFlight:
		t.Flight = &domain.FlightDetail{}
	case domain.KindTrain:
		t.Train = &domain.TrainDetail{}
	case domain.KindGeneric:
		g := &domain.GenericDetail{
			OriginAddress:      null.StringFromPtr(originAddr),
			DestinationAddress: null.StringFromPtr(destAddr),
			Origin:             coordsIn(originLat, originLon),
			Destination:        coordsIn(destLat, destLon),
		}
		if genericName != nil {
			g.Name = *genericName
		}
		if genericMode != nil {
			g.Mode = domain.GenericMode(*genericMode)
		}
		if dep != nil {
			g.Departure = postgres.ToDateTime(*dep)
		}
		if arr != nil {
			g.Arrival = postgres.ToDateTime(*arr)
		}
		t.Generic = g
	}
	return t, nil
}

// loadChildren fills in legs and booking refs for the given items in bulk.
func (r *Repo) loadChildren(ctx context.Context, ts []*domain.Transportation) error {
	flights := make(map[uuid.UUID]*domain.Transportation)
	trains := make(map[uuid.UUID]*domain.Transportation)
	var flightIDs, trainIDs []uuid.UUID
	for _, t := range ts {
		tu, err := uuid.Parse(string(t.ID))
		if err != nil {
			return fmt.Errorf("invalid transportation id: %w", err)
		}
		switch t.Kind {
		case domain.KindFlight:
			flights[tu] = t
			flightIDs = append(flightIDs, tu)
		case domain.KindTrain:
			trains[tu] = t
			trainIDs = append(trainIDs, tu)
		}
	}

	if len(flightIDs) > 0 {
		rows, err := r.pool.Query(ctx, `
			SELECT transportation_id,
			       origin_iata, origin_name, origin_municipality, origin_lat, origin_lon,
			       destination_iata, destination_name, destination_municipality, destination_lat, destination_lon,
			       airline, flight_number, departure, arrival, duration_minutes, aircraft
			FROM flight_legs
			WHERE transportation_id = ANY($1)
			ORDER BY transportation_id, position
		`, flightIDs)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				tu                   uuid.UUID
				leg                  domain.FlightLeg
				originLat, originLon *float64
				destLat, destLon     *float64
				dep, arr             time.Time
				aircraft             *string
			)
			err := rows.Scan(&tu,
				&leg.Origin.IATA, &leg.Origin.Name, &leg.Origin.Municipality, &originLat, &originLon,
				&leg.Destination.IATA, &leg.Destination.Name, &leg.Destination.Municipality, &destLat, &destLon,
				&leg.Airline, &leg.FlightNumber, &dep, &arr, &leg.DurationMinutes, &aircraft)
			if err != nil {
				return err
			}
			leg.Origin.Coordinates = coordsIn(originLat, originLon)
			leg.Destination.Coordinates = coordsIn(destLat, destLon)
			leg.Departure = postgres.ToDateTime(dep)
			leg.Arrival = postgres.ToDateTime(arr)
			leg.Aircraft = null.StringFromPtr(aircraft)
			flights[tu].Flight.Legs = append(flights[tu].Flight.Legs, leg)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		refRows, err := r.pool.Query(ctx, `
			SELECT transportation_id, airline, reference
			FROM booking_refs
			WHERE transportation_id = ANY($1)
			ORDER BY transportation_id, position
		`, flightIDs)
		if err != nil {
			return err
		}
		defer refRows.Close()
		for refRows.Next() {
			var (
				tu  uuid.UUID
				ref domain.BookingRef
			)
			if err := refRows.Scan(&tu, &ref.Airline, &ref.Reference); err != nil {
				return err
			}
			flights[tu].Flight.BookingRefs = append(flights[tu].Flight.BookingRefs, ref)
		}
		if err := refRows.Err(); err != nil {
			return err
		}
	}

	if len(trainIDs) > 0 {
		rows, err := r.pool.Query(ctx, `
			SELECT transportation_id,
			       origin_id, origin_name, origin_lat, origin_lon,
			       destination_id, destination_name, destination_lat, destination_lon,
			       departure, arrival, duration_minutes, line_name, operator_name
			FROM train_legs
			WHERE transportation_id = ANY($1)
			ORDER BY transportation_id, position
		`, trainIDs)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				tu                   uuid.UUID
				leg                  domain.TrainLeg
				originLat, originLon *float64
				destLat, destLon     *float64
				dep, arr             time.Time
			)
			err := rows.Scan(&tu,
				&leg.Origin.ID, &leg.Origin.Name, &originLat, &originLon,
				&leg.Destination.ID, &leg.Destination.Name, &destLat, &destLon,
				&dep, &arr, &leg.DurationMinutes, &leg.LineName, &leg.OperatorName)
			if err != nil {
				return err
			}
			leg.Origin.Coordinates = coordsIn(originLat, originLon)
			leg.Destination.Coordinates = coordsIn(destLat, destLon)
			leg.Departure = postgres.ToDateTime(dep)
			leg.Arrival = postgres.ToDateTime(arr)
			trains[tu].Train.Legs = append(trains[tu].Train.Legs, leg)
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
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

func sortByDeparture(ts []domain.Transportation) {
	// Mirrors the in-memory adapter's contract: departure ascending, ID as
	// tie-breaker, malformed items last.
	sort.Slice(ts, func(i, j int) bool {
		return departsBefore(ts[i], ts[j])
	})
}

func departsBefore(a, b domain.Transportation) bool {
	da, aok := a.DepartureTime()
	db, bok := b.DepartureTime()
	if aok && bok {
		if da != db {
			return da.Before(db)
		}
		return a.ID < b.ID
	}
	if aok != bok {
		return aok
	}
	return a.ID < b.ID
}
