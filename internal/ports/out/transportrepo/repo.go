package transportrepo

import (
	"context"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

// Repository provides access to persisted transportation items of all kinds.
//
// Result ordering expectations:
// - ListByTrip returns items ordered by overall departure time ascending,
//   ID as tie-breaker; malformed items (no legs) sort last.
type Repository interface {
	Create(ctx context.Context, t domain.Transportation) error
	Update(ctx context.Context, t domain.Transportation) error

	GetByID(ctx context.Context, id domain.TransportationID) (domain.Transportation, error)
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Transportation, error)

	Delete(ctx context.Context, id domain.TransportationID) error
}
