package attachmentrepo

import (
	"context"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

// Repository provides access to persisted trip attachments.
//
// Result ordering expectations:
// - ListByTrip returns blob-free infos ordered by name ascending, ID as tie-breaker.
type Repository interface {
	Create(ctx context.Context, a domain.Attachment) error

	GetByID(ctx context.Context, id domain.AttachmentID) (domain.Attachment, error)
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.AttachmentInfo, error)

	Delete(ctx context.Context, id domain.AttachmentID) error
}
