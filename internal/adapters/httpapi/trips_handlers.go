package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/trips"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func (h *handlers) listTrips(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	ts, err := h.svcs.Trips.List(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]tripDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTripDTO(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handlers) createTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Trips.Create(r.Context(), caller, trips.CreateTripInput{
		Name:        req.Name,
		StartDate:   civilDate(req.StartDate),
		EndDate:     civilDate(req.EndDate),
		Description: nullString(req.Description),
		ImageURL:    nullString(req.ImageURL),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTripDTO(t))
}

func (h *handlers) getTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	t, err := h.svcs.Trips.Get(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTripDTO(t))
}

func (h *handlers) updateTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req updateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Trips.Update(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")), trips.UpdateTripInput{
		Name:        optVal(req.Name),
		StartDate:   optDate(req.StartDate),
		EndDate:     optDate(req.EndDate),
		Description: optVal(req.Description),
		ImageURL:    optVal(req.ImageURL),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTripDTO(t))
}

func (h *handlers) deleteTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svcs.Trips.Delete(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
