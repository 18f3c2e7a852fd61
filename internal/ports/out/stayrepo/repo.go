package stayrepo

import (
	"context"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

// Repository provides access to persisted accommodation stays.
//
// Result ordering expectations:
// - ListByTrip returns stays ordered by arrival date ascending, ID as tie-breaker.
//   The itinerary builder relies on this order to resolve overlapping stays
//   deterministically (earliest arrival wins).
type Repository interface {
	Create(ctx context.Context, a domain.Accommodation) error
	Update(ctx context.Context, a domain.Accommodation) error

	GetByID(ctx context.Context, id domain.AccommodationID) (domain.Accommodation, error)
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Accommodation, error)

	Delete(ctx context.Context, id domain.AccommodationID) error
}
