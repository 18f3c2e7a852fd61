package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func (h *handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	it, err := h.svcs.Itinerary.Get(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, itineraryResponse{
		Trip: toTripDTO(it.Trip),
		Days: toItineraryDayDTOs(it.Days),
	})
}
