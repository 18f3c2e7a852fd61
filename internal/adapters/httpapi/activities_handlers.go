package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/activities"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func (h *handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	as, err := h.svcs.Activities.ListByTrip(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]activityDTO, 0, len(as))
	for _, a := range as {
		out = append(out, toActivityDTO(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handlers) createActivity(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	a, err := h.svcs.Activities.Create(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")), activities.CreateActivityInput{
		Name:        req.Name,
		Date:        civilDate(req.Date),
		Time:        timePtr(req.Time),
		Description: nullString(req.Description),
		Address:     nullString(req.Address),
		Coordinates: fromCoordinatesDTO(coordPtr(req.Coordinates)),
		Price:       nullInt32(req.Price),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toActivityDTO(a))
}

func (h *handlers) getActivity(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	a, err := h.svcs.Activities.Get(r.Context(), caller, domain.ActivityID(chi.URLParam(r, "activityID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toActivityDTO(a))
}

func (h *handlers) updateActivity(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req updateActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	a, err := h.svcs.Activities.Update(r.Context(), caller, domain.ActivityID(chi.URLParam(r, "activityID")), activities.UpdateActivityInput{
		Name:        optVal(req.Name),
		Date:        optDate(req.Date),
		Time:        optVal(req.Time),
		Description: optVal(req.Description),
		Address:     optVal(req.Address),
		Coordinates: optCoordinates(req.Coordinates),
		Price:       optVal(req.Price),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toActivityDTO(a))
}

func (h *handlers) deleteActivity(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svcs.Activities.Delete(r.Context(), caller, domain.ActivityID(chi.URLParam(r, "activityID"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
