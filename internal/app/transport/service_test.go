package transport_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	memtransportrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/transportrepo"
	memtriprepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/triprepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/apperr"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/transport"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func at(d civil.Date, hour int) civil.DateTime {
	return civil.DateTime{Date: d, Time: civil.Time{Hour: hour}}
}

func leg(dep, arr civil.DateTime) domain.FlightLeg {
	return domain.FlightLeg{
		Origin:      domain.Airport{IATA: "AMS", Name: "Schiphol"},
		Destination: domain.Airport{IATA: "NRT", Name: "Narita"},
		Airline:     "KL", FlightNumber: "KL861",
		Departure: dep, Arrival: arr,
	}
}

func provisionTrip(t *testing.T, repo *memtriprepo.Repo, id domain.TripID, owner domain.UserID) {
	t.Helper()
	if err := repo.Create(context.Background(), domain.Trip{
		ID:        id,
		OwnerID:   owner,
		Name:      "Trip " + string(id),
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 10),
	}); err != nil {
		t.Fatalf("create trip: %v", err)
	}
}

func wantAppErr(t *testing.T, err error, status int, code string) *apperr.Error {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("err=%v, want *apperr.Error", err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("err=%d/%s, want %d/%s", ae.Status, ae.Code, status, code)
	}
	return ae
}

func TestService_CreateFlight_SetsKindAndPayload(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	svc.SetNewTransportationIDForTest(func() domain.TransportationID { return "tr1" })

	created, err := svc.CreateFlight(context.Background(), "u1", "t1", transport.CreateFlightInput{
		Detail: domain.FlightDetail{
			Legs:        []domain.FlightLeg{leg(at(date(2024, time.June, 2), 10), at(date(2024, time.June, 2), 22))},
			BookingRefs: []domain.BookingRef{{Airline: "KL", Reference: "ABC123"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateFlight: %v", err)
	}
	if created.Kind != domain.KindFlight || created.Flight == nil || created.Train != nil || created.Generic != nil {
		t.Fatalf("created=%+v", created)
	}
	if len(created.Flight.BookingRefs) != 1 {
		t.Fatalf("refs=%+v", created.Flight.BookingRefs)
	}
}

func TestService_CreateFlight_RejectsEmptyLegs(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	_, err := svc.CreateFlight(context.Background(), "u1", "t1", transport.CreateFlightInput{})
	ae := wantAppErr(t, err, 422, "VALIDATION_ERROR")
	if _, ok := ae.Details["legs"]; !ok {
		t.Fatalf("details=%v", ae.Details)
	}
}

func TestService_CreateFlight_RejectsArrivalBeforeDeparture(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	_, err := svc.CreateFlight(context.Background(), "u1", "t1", transport.CreateFlightInput{
		Detail: domain.FlightDetail{
			Legs: []domain.FlightLeg{leg(at(date(2024, time.June, 2), 22), at(date(2024, time.June, 2), 10))},
		},
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestService_CreateFlight_RejectsLegsOutOfOrder(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	_, err := svc.CreateFlight(context.Background(), "u1", "t1", transport.CreateFlightInput{
		Detail: domain.FlightDetail{
			Legs: []domain.FlightLeg{
				leg(at(date(2024, time.June, 2), 10), at(date(2024, time.June, 2), 22)),
				// Second leg departs before the first arrives.
				leg(at(date(2024, time.June, 2), 12), at(date(2024, time.June, 2), 23)),
			},
		},
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestService_CreateGeneric_RejectsUnknownMode(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	_, err := svc.CreateGeneric(context.Background(), "u1", "t1", transport.CreateGenericInput{
		Detail: domain.GenericDetail{
			Name:      "Mystery ride",
			Mode:      "TELEPORT",
			Departure: at(date(2024, time.June, 2), 8),
			Arrival:   at(date(2024, time.June, 2), 9),
		},
	})
	ae := wantAppErr(t, err, 422, "VALIDATION_ERROR")
	if _, ok := ae.Details["mode"]; !ok {
		t.Fatalf("details=%v", ae.Details)
	}
}

func TestService_UpdateFlight_KindMismatch(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	svc.SetNewTransportationIDForTest(func() domain.TransportationID { return "tr1" })
	if _, err := svc.CreateGeneric(context.Background(), "u1", "t1", transport.CreateGenericInput{
		Detail: domain.GenericDetail{
			Name:      "Ferry to Naoshima",
			Mode:      domain.ModeFerry,
			Departure: at(date(2024, time.June, 2), 8),
			Arrival:   at(date(2024, time.June, 2), 9),
		},
	}); err != nil {
		t.Fatalf("CreateGeneric: %v", err)
	}

	_, err := svc.UpdateFlight(context.Background(), "u1", "tr1", transport.CreateFlightInput{
		Detail: domain.FlightDetail{
			Legs: []domain.FlightLeg{leg(at(date(2024, time.June, 3), 10), at(date(2024, time.June, 3), 22))},
		},
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestService_ListByTrip_SortedByDeparture(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	ids := []domain.TransportationID{"tr1", "tr2"}
	svc.SetNewTransportationIDForTest(func() domain.TransportationID {
		id := ids[0]
		ids = ids[1:]
		return id
	})

	if _, err := svc.CreateGeneric(context.Background(), "u1", "t1", transport.CreateGenericInput{
		Detail: domain.GenericDetail{
			Name:      "Late bus",
			Mode:      domain.ModeBus,
			Departure: at(date(2024, time.June, 5), 18),
			Arrival:   at(date(2024, time.June, 5), 20),
		},
	}); err != nil {
		t.Fatalf("CreateGeneric: %v", err)
	}
	if _, err := svc.CreateGeneric(context.Background(), "u1", "t1", transport.CreateGenericInput{
		Detail: domain.GenericDetail{
			Name:      "Early ferry",
			Mode:      domain.ModeFerry,
			Departure: at(date(2024, time.June, 2), 8),
			Arrival:   at(date(2024, time.June, 2), 9),
		},
	}); err != nil {
		t.Fatalf("CreateGeneric: %v", err)
	}

	got, err := svc.ListByTrip(context.Background(), "u1", "t1")
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(got) != 2 || got[0].Generic.Name != "Early ferry" || got[1].Generic.Name != "Late bus" {
		t.Fatalf("got=%+v", got)
	}
}

func TestService_Delete_ForeignItemReadsAsNotFound(t *testing.T) {
	t.Parallel()

	tripsRepo := memtriprepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	provisionTrip(t, tripsRepo, "t1", "u1")

	svc := transport.NewService(tripsRepo, transportRepo)
	svc.SetNewTransportationIDForTest(func() domain.TransportationID { return "tr1" })
	if _, err := svc.CreateGeneric(context.Background(), "u1", "t1", transport.CreateGenericInput{
		Detail: domain.GenericDetail{
			Name:      "Bike ride",
			Mode:      domain.ModeBike,
			Departure: at(date(2024, time.June, 2), 8),
			Arrival:   at(date(2024, time.June, 2), 9),
		},
	}); err != nil {
		t.Fatalf("CreateGeneric: %v", err)
	}

	err := svc.Delete(context.Background(), "u2", "tr1")
	wantAppErr(t, err, 404, "TRANSPORTATION_NOT_FOUND")
}
