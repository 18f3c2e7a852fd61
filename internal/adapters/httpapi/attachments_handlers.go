package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/attachments"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

func (h *handlers) listAttachments(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	infos, err := h.svcs.Attachments.ListByTrip(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]attachmentInfoDTO, 0, len(infos))
	for _, info := range infos {
		out = append(out, toAttachmentInfoDTO(info))
	}
	respondJSON(w, http.StatusOK, out)
}

// uploadAttachment accepts a multipart form with a "file" part and an
// optional "name" field. When the name field is absent the uploaded
// filename is used.
func (h *handlers) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, attachments.MaxBlobSize+1<<20)
	if err := r.ParseMultipartForm(attachments.MaxBlobSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid file",
				map[string]any{"file": "exceeds the maximum size"})
			return
		}
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed multipart body", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid file",
			map[string]any{"file": "must be provided"})
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "could not read file", nil)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	info, err := h.svcs.Attachments.Upload(r.Context(), caller, domain.TripID(chi.URLParam(r, "tripID")), attachments.UploadInput{
		Name:        name,
		ContentType: header.Header.Get("Content-Type"),
		Blob:        blob,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAttachmentInfoDTO(info))
}

func (h *handlers) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	a, err := h.svcs.Attachments.Get(r.Context(), caller, domain.AttachmentID(chi.URLParam(r, "attachmentID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Blob)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.Name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Blob)
}

func (h *handlers) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svcs.Attachments.Delete(r.Context(), caller, domain.AttachmentID(chi.URLParam(r, "attachmentID"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
