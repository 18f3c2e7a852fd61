package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

func uploadTestAttachment(t *testing.T, h http.Handler, subject, tripID, filename, contentType string, blob []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(blob); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/"+tripID+"/attachments", &buf)
	req.Header.Set("X-Debug-Subject", subject)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAttachments_UploadDownloadRoundtrip(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"Receipts","startDate":"2026-09-01","endDate":"2026-09-05"}`)

	blob := []byte("%PDF-1.4 fake receipt")
	rec := uploadTestAttachment(t, h, "sub-alice", trip.ID, "receipt.pdf", "application/pdf", blob)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status=%d body=%s", rec.Code, rec.Body.String())
	}
	var info attachmentInfoDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.Name != "receipt.pdf" {
		t.Fatalf("name: got %q, want uploaded filename", info.Name)
	}
	if info.ContentType != "application/pdf" {
		t.Fatalf("contentType: got %q", info.ContentType)
	}
	if info.Size != int64(len(blob)) {
		t.Fatalf("size: got %d want %d", info.Size, len(blob))
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/attachments/"+info.ID, "sub-alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status=%d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("Content-Type: got %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), blob) {
		t.Fatalf("downloaded bytes differ from upload")
	}
}

func TestAttachments_EmptyFile_422(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"Docs","startDate":"2026-09-01","endDate":"2026-09-02"}`)

	rec := uploadTestAttachment(t, h, "sub-alice", trip.ID, "empty.txt", "text/plain", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	if er := decodeErrorResponse(t, rec); er.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
}

func TestAttachments_ForeignAttachmentReadsAsNotFound(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"Docs","startDate":"2026-09-01","endDate":"2026-09-02"}`)

	rec := uploadTestAttachment(t, h, "sub-alice", trip.ID, "note.txt", "text/plain", []byte("hi"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status=%d body=%s", rec.Code, rec.Body.String())
	}
	var info attachmentInfoDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/attachments/"+info.ID, "sub-bob", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusNotFound)
	}
	if er := decodeErrorResponse(t, rec); er.Error.Code != "ATTACHMENT_NOT_FOUND" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
}

func TestAttachments_DeleteThenList(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	trip := createTestTrip(t, h, "sub-alice",
		`{"name":"Docs","startDate":"2026-09-01","endDate":"2026-09-02"}`)

	rec := uploadTestAttachment(t, h, "sub-alice", trip.ID, "a.txt", "text/plain", []byte("a"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status=%d", rec.Code)
	}
	var info attachmentInfoDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/attachments/"+info.ID, "sub-alice", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/trips/"+trip.ID+"/attachments", "sub-alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status=%d", rec.Code)
	}
	var infos []attachmentInfoDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected empty list, got %+v", infos)
	}
}
