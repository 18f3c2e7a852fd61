package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/transport"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func (h *handlers) listTransportation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	ts, err := h.svcs.Transport.ListByTrip(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]transportationDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransportationDTO(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handlers) createFlight(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Transport.CreateFlight(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")), transport.CreateFlightInput{
		Price:  nullInt32(req.Price),
		Detail: fromFlightDetailDTO(req.Flight),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransportationDTO(t))
}

func (h *handlers) createTrain(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createTrainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Transport.CreateTrain(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")), transport.CreateTrainInput{
		Price:  nullInt32(req.Price),
		Detail: fromTrainDetailDTO(req.Train),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransportationDTO(t))
}

func (h *handlers) createGeneric(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createGenericRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Transport.CreateGeneric(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")), transport.CreateGenericInput{
		Price:  nullInt32(req.Price),
		Detail: fromGenericDetailDTO(req.Generic),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransportationDTO(t))
}

func (h *handlers) getTransportation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	t, err := h.svcs.Transport.Get(r.Context(), caller, domain.TransportationID(chi.URLParam(r, "transportationID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransportationDTO(t))
}

func (h *handlers) updateFlight(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Transport.UpdateFlight(r.Context(), caller, domain.TransportationID(chi.URLParam(r, "transportationID")), transport.CreateFlightInput{
		Price:  nullInt32(req.Price),
		Detail: fromFlightDetailDTO(req.Flight),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransportationDTO(t))
}

func (h *handlers) updateTrain(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createTrainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Transport.UpdateTrain(r.Context(), caller, domain.TransportationID(chi.URLParam(r, "transportationID")), transport.CreateTrainInput{
		Price:  nullInt32(req.Price),
		Detail: fromTrainDetailDTO(req.Train),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransportationDTO(t))
}

func (h *handlers) updateGeneric(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createGenericRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	t, err := h.svcs.Transport.UpdateGeneric(r.Context(), caller, domain.TransportationID(chi.URLParam(r, "transportationID")), transport.CreateGenericInput{
		Price:  nullInt32(req.Price),
		Detail: fromGenericDetailDTO(req.Generic),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransportationDTO(t))
}

func (h *handlers) deleteTransportation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svcs.Transport.Delete(r.Context(), caller, domain.TransportationID(chi.URLParam(r, "transportationID"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
