package activityrepo

import (
	"context"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

// Repository provides access to persisted activities.
//
// Result ordering expectations:
// - ListByTrip returns activities ordered by date, then time (untimed last), then ID.
type Repository interface {
	Create(ctx context.Context, a domain.Activity) error
	Update(ctx context.Context, a domain.Activity) error

	GetByID(ctx context.Context, id domain.ActivityID) (domain.Activity, error)
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Activity, error)

	Delete(ctx context.Context, id domain.ActivityID) error
}
