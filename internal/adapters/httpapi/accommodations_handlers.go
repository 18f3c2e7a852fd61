package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/stays"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func (h *handlers) listAccommodations(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	as, err := h.svcs.Stays.ListByTrip(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]accommodationDTO, 0, len(as))
	for _, a := range as {
		out = append(out, toAccommodationDTO(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handlers) createAccommodation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createAccommodationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	a, err := h.svcs.Stays.Create(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")), stays.CreateStayInput{
		Name:          req.Name,
		ArrivalDate:   civilDate(req.ArrivalDate),
		DepartureDate: civilDate(req.DepartureDate),
		CheckInTime:   timePtr(req.CheckInTime),
		CheckOutTime:  timePtr(req.CheckOutTime),
		Description:   nullString(req.Description),
		Address:       nullString(req.Address),
		Coordinates:   fromCoordinatesDTO(coordPtr(req.Coordinates)),
		Price:         nullInt32(req.Price),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAccommodationDTO(a))
}

func (h *handlers) getAccommodation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	a, err := h.svcs.Stays.Get(r.Context(), caller, domain.AccommodationID(chi.URLParam(r, "accommodationID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccommodationDTO(a))
}

func (h *handlers) updateAccommodation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req updateAccommodationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	a, err := h.svcs.Stays.Update(r.Context(), caller, domain.AccommodationID(chi.URLParam(r, "accommodationID")), stays.UpdateStayInput{
		Name:          optVal(req.Name),
		ArrivalDate:   optDate(req.ArrivalDate),
		DepartureDate: optDate(req.DepartureDate),
		CheckInTime:   optVal(req.CheckInTime),
		CheckOutTime:  optVal(req.CheckOutTime),
		Description:   optVal(req.Description),
		Address:       optVal(req.Address),
		Coordinates:   optCoordinates(req.Coordinates),
		Price:         optVal(req.Price),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccommodationDTO(a))
}

func (h *handlers) deleteAccommodation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svcs.Stays.Delete(r.Context(), caller, domain.AccommodationID(chi.URLParam(r, "accommodationID"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
