package triprepo

import (
	"context"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

// Repository provides access to persisted trips.
//
// Result ordering expectations:
// - ListByOwner returns trips ordered by start date ascending, ID as tie-breaker.
type Repository interface {
	Create(ctx context.Context, t domain.Trip) error
	Update(ctx context.Context, t domain.Trip) error

	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)
	ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Trip, error)

	// Delete removes the trip record itself. Removal of owned resources
	// (activities, stays, transportation, attachments) is coordinated by
	// the trips service.
	Delete(ctx context.Context, id domain.TripID) error
}
