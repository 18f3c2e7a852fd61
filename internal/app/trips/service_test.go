package trips_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/guregu/null/v6"

	memactivityrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/activityrepo"
	memattachmentrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/attachmentrepo"
	memstayrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/stayrepo"
	memtransportrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/transportrepo"
	memtriprepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/triprepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/apperr"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/patch"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/trips"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	portactivityrepo "github.com/wayfarer-travel/wayfarer-api/internal/ports/out/activityrepo"
)

type fixture struct {
	trips       *memtriprepo.Repo
	activities  *memactivityrepo.Repo
	stays       *memstayrepo.Repo
	transport   *memtransportrepo.Repo
	attachments *memattachmentrepo.Repo
	svc         *trips.Service
}

func newFixture() *fixture {
	f := &fixture{
		trips:       memtriprepo.NewRepo(),
		activities:  memactivityrepo.NewRepo(),
		stays:       memstayrepo.NewRepo(),
		transport:   memtransportrepo.NewRepo(),
		attachments: memattachmentrepo.NewRepo(),
	}
	f.svc = trips.NewService(f.trips, f.activities, f.stays, f.transport, f.attachments)
	return f
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
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

func TestService_Create_NormalizesName(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })

	created, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:      "  Summer   in   Japan  ",
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 10),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "t1" || created.OwnerID != "u1" {
		t.Fatalf("created=%+v", created)
	}
	if created.Name != "Summer in Japan" {
		t.Fatalf("name=%q", created.Name)
	}

	got, err := f.trips.GetByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Summer in Japan" {
		t.Fatalf("stored name=%q", got.Name)
	}
}

func TestService_Create_RejectsInvertedDates(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:      "Backwards",
		StartDate: date(2024, time.June, 10),
		EndDate:   date(2024, time.June, 1),
	})
	ae := wantAppErr(t, err, 422, "VALIDATION_ERROR")
	if _, ok := ae.Details["endDate"]; !ok {
		t.Fatalf("details=%v", ae.Details)
	}
}

func TestService_Create_RejectsBlankName(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:      "   ",
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 10),
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestService_Get_ForeignTripReadsAsNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })
	if _, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:      "Mine",
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 10),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := f.svc.Get(context.Background(), "u2", "t1")
	wantAppErr(t, err, 404, "TRIP_NOT_FOUND")
}

func TestService_Update_PatchSemantics(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })
	if _, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:        "Original",
		StartDate:   date(2024, time.June, 1),
		EndDate:     date(2024, time.June, 10),
		Description: null.StringFrom("keep or clear"),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Unspecified fields stay untouched.
	got, err := f.svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Name: patch.Some("  Renamed   Trip "),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Renamed Trip" {
		t.Fatalf("name=%q", got.Name)
	}
	if !got.Description.Valid || got.Description.String != "keep or clear" {
		t.Fatalf("description=%+v", got.Description)
	}

	// Explicit null clears a nullable field.
	got, err = f.svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Description: patch.Null[string](),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Description.Valid {
		t.Fatalf("description=%+v, want cleared", got.Description)
	}
}

func TestService_Update_RejectsNullName(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })
	if _, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:      "Named",
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 10),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := f.svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Name: patch.Null[string](),
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestService_Update_RejectsInvertedDateCombination(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })
	if _, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:      "Dated",
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 10),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Moving the start past the existing end must fail.
	_, err := f.svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		StartDate: patch.Some(date(2024, time.June, 20)),
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestService_Delete_CascadesOwnedResources(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })
	if _, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name:      "Doomed",
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 10),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.activities.Create(context.Background(), domain.Activity{
		ID: "a1", TripID: "t1", Name: "Museum", Date: date(2024, time.June, 2),
	}); err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if err := f.stays.Create(context.Background(), domain.Accommodation{
		ID: "s1", TripID: "t1", Name: "Hotel",
		ArrivalDate: date(2024, time.June, 1), DepartureDate: date(2024, time.June, 5),
	}); err != nil {
		t.Fatalf("create stay: %v", err)
	}

	if err := f.svc.Delete(context.Background(), "u1", "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := f.activities.GetByID(context.Background(), "a1"); !errors.Is(err, portactivityrepo.ErrNotFound) {
		t.Fatalf("activity err=%v, want not found", err)
	}
	if _, err := f.svc.Get(context.Background(), "u1", "t1"); err == nil {
		t.Fatal("trip still readable after delete")
	}
}

func TestService_List_OnlyOwnTrips(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ids := []domain.TripID{"t1", "t2"}
	f.svc.SetNewTripIDForTest(func() domain.TripID {
		id := ids[0]
		ids = ids[1:]
		return id
	})
	if _, err := f.svc.Create(context.Background(), "u1", trips.CreateTripInput{
		Name: "Mine", StartDate: date(2024, time.June, 1), EndDate: date(2024, time.June, 3),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), "u2", trips.CreateTripInput{
		Name: "Theirs", StartDate: date(2024, time.May, 1), EndDate: date(2024, time.May, 3),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := f.svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Mine" {
		t.Fatalf("got=%+v", got)
	}
}
