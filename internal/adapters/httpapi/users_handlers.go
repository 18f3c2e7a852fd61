package httpapi

import (
	"net/http"
)

func (h *handlers) getMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	u, err := h.svcs.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserDTO(u))
}
