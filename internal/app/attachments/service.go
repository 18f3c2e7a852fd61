package attachments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/apperr"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/attachmentrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
)

// MaxBlobSize caps uploaded attachment payloads.
const MaxBlobSize = 10 << 20

type Service struct {
	trips       triprepo.Repository
	attachments attachmentrepo.Repository

	newAttachmentID func() domain.AttachmentID
}

func NewService(tripsRepo triprepo.Repository, attachmentsRepo attachmentrepo.Repository) *Service {
	return &Service{
		trips:       tripsRepo,
		attachments: attachmentsRepo,
		newAttachmentID: func() domain.AttachmentID {
			return domain.AttachmentID(uuid.NewString())
		},
	}
}

// SetNewAttachmentIDForTest overrides attachment ID generation for
// deterministic tests. It should not be used in production code.
func (s *Service) SetNewAttachmentIDForTest(fn func() domain.AttachmentID) {
	if fn != nil {
		s.newAttachmentID = fn
	}
}

type UploadInput struct {
	Name        string
	ContentType string
	Blob        []byte
}

func (s *Service) Upload(ctx context.Context, caller domain.UserID, tripID domain.TripID, in UploadInput) (domain.AttachmentInfo, error) {
	if _, err := s.ownedTrip(ctx, caller, tripID); err != nil {
		return domain.AttachmentInfo{}, err
	}

	name := domain.NormalizeName(in.Name)
	if name == "" {
		return domain.AttachmentInfo{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
	}
	if len(in.Blob) == 0 {
		return domain.AttachmentInfo{}, apperr.Validation("invalid file", map[string]any{"file": "must be non-empty"})
	}
	if len(in.Blob) > MaxBlobSize {
		return domain.AttachmentInfo{}, apperr.Validation("invalid file", map[string]any{"file": "exceeds the maximum size"})
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	a := domain.Attachment{
		ID:          s.newAttachmentID(),
		TripID:      tripID,
		Name:        name,
		ContentType: contentType,
		Blob:        in.Blob,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		return domain.AttachmentInfo{}, fmt.Errorf("create attachment: %w", err)
	}
	return domain.AttachmentInfo{
		ID:          a.ID,
		TripID:      a.TripID,
		Name:        a.Name,
		ContentType: a.ContentType,
		Size:        int64(len(a.Blob)),
	}, nil
}

func (s *Service) Get(ctx context.Context, caller domain.UserID, id domain.AttachmentID) (domain.Attachment, error) {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attachmentrepo.ErrNotFound) {
			return domain.Attachment{}, apperr.NotFound("ATTACHMENT_NOT_FOUND", "attachment not found")
		}
		return domain.Attachment{}, err
	}
	if _, err := s.ownedTrip(ctx, caller, a.TripID); err != nil {
		// Attachments of foreign trips read as absent.
		return domain.Attachment{}, apperr.NotFound("ATTACHMENT_NOT_FOUND", "attachment not found")
	}
	return a, nil
}

func (s *Service) ListByTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.AttachmentInfo, error) {
	if _, err := s.ownedTrip(ctx, caller, tripID); err != nil {
		return nil, err
	}
	return s.attachments.ListByTrip(ctx, tripID)
}

func (s *Service) Delete(ctx context.Context, caller domain.UserID, id domain.AttachmentID) error {
	a, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.attachments.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, attachmentrepo.ErrNotFound) {
			return apperr.NotFound("ATTACHMENT_NOT_FOUND", "attachment not found")
		}
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

func (s *Service) ownedTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, apperr.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return domain.Trip{}, err
	}
	if t.OwnerID != caller {
		return domain.Trip{}, apperr.NotFound("TRIP_NOT_FOUND", "trip not found")
	}
	return t, nil
}
