package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	memactivityrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/activityrepo"
	memattachmentrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/attachmentrepo"
	memstayrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/stayrepo"
	memtransportrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/transportrepo"
	memtriprepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/userrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/activities"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/attachments"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/itinerary"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/stays"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/transport"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/trips"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/users"
	platformclock "github.com/wayfarer-travel/wayfarer-api/internal/platform/clock"
)

// newTestRouter builds the full router over in-memory repositories with the
// dev auth shim, so tests select the caller via X-Debug-Subject.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithAuth(t, NewDevAuthMiddleware(""))
}

func newTestRouterWithAuth(t *testing.T, authMW func(http.Handler) http.Handler) http.Handler {
	t.Helper()

	userRepo := memuserrepo.NewRepo()
	tripRepo := memtriprepo.NewRepo()
	activityRepo := memactivityrepo.NewRepo()
	stayRepo := memstayrepo.NewRepo()
	transportRepo := memtransportrepo.NewRepo()
	attachmentRepo := memattachmentrepo.NewRepo()

	svcs := Services{
		Users:       users.NewService(userRepo, platformclock.NewSystemClock()),
		Trips:       trips.NewService(tripRepo, activityRepo, stayRepo, transportRepo, attachmentRepo),
		Activities:  activities.NewService(tripRepo, activityRepo),
		Stays:       stays.NewService(tripRepo, stayRepo),
		Transport:   transport.NewService(tripRepo, transportRepo),
		Itinerary:   itinerary.NewService(tripRepo, activityRepo, stayRepo, transportRepo),
		Attachments: attachments.NewService(tripRepo, attachmentRepo),
	}
	return NewRouter(svcs, Options{AuthMiddleware: authMW})
}

func doJSON(t *testing.T, h http.Handler, method, path, subject, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("X-Debug-Subject", subject)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createTestTrip(t *testing.T, h http.Handler, subject, body string) tripDTO {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/trips", subject, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create trip status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out tripDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode trip: %v", err)
	}
	return out
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var er errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error response: %v body=%s", err, rec.Body.String())
	}
	return er
}

func TestTrips_CreateAndGet(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"  Japan 2026 ","startDate":"2026-04-01","endDate":"2026-04-14","description":"Cherry blossom season"}`)
	if trip.Name != "Japan 2026" {
		t.Fatalf("name: got %q", trip.Name)
	}
	if trip.Days != 14 {
		t.Fatalf("days: got %d want 14", trip.Days)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/trips/"+trip.ID, "sub-alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got tripDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trip: %v", err)
	}
	if got.ID != trip.ID || got.Description == nil || *got.Description != "Cherry blossom season" {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestTrips_CreateInvalidDates_422(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/trips", "sub-alice",
		`{"name":"Backwards","startDate":"2026-04-14","endDate":"2026-04-01"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	er := decodeErrorResponse(t, rec)
	if er.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
	if er.Error.RequestID == "" {
		t.Fatalf("expected requestId to be set")
	}
}

func TestTrips_PatchClearsDescription(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"Lofoten","startDate":"2026-07-01","endDate":"2026-07-10","description":"Midnight sun"}`)

	rec := doJSON(t, h, http.MethodPatch, "/api/v1/trips/"+trip.ID, "sub-alice", `{"description":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got tripDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trip: %v", err)
	}
	if got.Description != nil {
		t.Fatalf("description should be cleared, got %q", *got.Description)
	}
	if got.Name != "Lofoten" {
		t.Fatalf("name should be untouched, got %q", got.Name)
	}
}

func TestTrips_ForeignTripReadsAsNotFound(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"Secret","startDate":"2026-05-01","endDate":"2026-05-02"}`)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/trips/"+trip.ID, "sub-bob", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusNotFound)
	}
	if er := decodeErrorResponse(t, rec); er.Error.Code != "TRIP_NOT_FOUND" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
}

func TestTrips_DeleteRemovesTripAndChildren(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"Weekend","startDate":"2026-03-06","endDate":"2026-03-08"}`)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/trips/"+trip.ID+"/activities", "sub-alice",
		`{"name":"Brunch","date":"2026-03-07"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create activity status=%d body=%s", rec.Code, rec.Body.String())
	}
	var act activityDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &act); err != nil {
		t.Fatalf("decode activity: %v", err)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/trips/"+trip.ID, "sub-alice", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/trips/"+trip.ID, "sub-alice", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("trip should be gone, status=%d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/v1/activities/"+act.ID, "sub-alice", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("activity should be gone with its trip, status=%d", rec.Code)
	}
}

func TestTrips_ListReturnsOnlyOwnTrips(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	_ = createTestTrip(t, h, "sub-alice", `{"name":"A","startDate":"2026-02-01","endDate":"2026-02-02"}`)
	_ = createTestTrip(t, h, "sub-bob", `{"name":"B","startDate":"2026-02-01","endDate":"2026-02-02"}`)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/trips", "sub-alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got []tripDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trips: %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("expected only alice's trip, got %+v", got)
	}
}
