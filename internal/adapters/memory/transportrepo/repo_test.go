package transportrepo_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	memtransportrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/transportrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func dt(y int, m time.Month, d, hour int) civil.DateTime {
	return civil.DateTime{
		Date: civil.Date{Year: y, Month: m, Day: d},
		Time: civil.Time{Hour: hour},
	}
}

func flight(id domain.TransportationID, trip domain.TripID, dep, arr civil.DateTime) domain.Transportation {
	return domain.Transportation{
		ID: id, TripID: trip, Kind: domain.KindFlight,
		Flight: &domain.FlightDetail{
			Legs: []domain.FlightLeg{{
				Origin:      domain.Airport{IATA: "AMS"},
				Destination: domain.Airport{IATA: "NRT"},
				Departure:   dep, Arrival: arr,
			}},
		},
	}
}

func TestRepo_ListByTrip_OrderedByDepartureMalformedLast(t *testing.T) {
	t.Parallel()

	repo := memtransportrepo.NewRepo()
	ctx := context.Background()

	late := flight("tr-late", "t1", dt(2024, time.June, 5, 9), dt(2024, time.June, 5, 20))
	early := flight("tr-early", "t1", dt(2024, time.June, 2, 9), dt(2024, time.June, 2, 20))
	malformed := domain.Transportation{ID: "tr-bad", TripID: "t1", Kind: domain.KindFlight, Flight: &domain.FlightDetail{}}

	for _, tr := range []domain.Transportation{late, malformed, early} {
		if err := repo.Create(ctx, tr); err != nil {
			t.Fatalf("Create %s: %v", tr.ID, err)
		}
	}

	got, err := repo.ListByTrip(ctx, "t1")
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	var ids []domain.TransportationID
	for _, tr := range got {
		ids = append(ids, tr.ID)
	}
	want := []domain.TransportationID{"tr-early", "tr-late", "tr-bad"}
	if len(ids) != len(want) {
		t.Fatalf("ids=%v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids=%v, want %v", ids, want)
		}
	}
}

func TestRepo_Get_ReturnsIndependentCopy(t *testing.T) {
	t.Parallel()

	repo := memtransportrepo.NewRepo()
	ctx := context.Background()
	orig := flight("tr1", "t1", dt(2024, time.June, 2, 9), dt(2024, time.June, 2, 20))
	if err := repo.Create(ctx, orig); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, "tr1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Flight.Legs[0].Origin.IATA = "XXX"

	again, err := repo.GetByID(ctx, "tr1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Flight.Legs[0].Origin.IATA != "AMS" {
		t.Fatalf("stored leg mutated: %+v", again.Flight.Legs[0])
	}
}
