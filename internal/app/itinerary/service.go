package itinerary

import (
	"context"
	"errors"
	"fmt"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/apperr"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/activityrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/stayrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/transportrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
)

type Service struct {
	trips      triprepo.Repository
	activities activityrepo.Repository
	stays      stayrepo.Repository
	transport  transportrepo.Repository
}

func NewService(
	tripsRepo triprepo.Repository,
	activitiesRepo activityrepo.Repository,
	staysRepo stayrepo.Repository,
	transportRepo transportrepo.Repository,
) *Service {
	return &Service{
		trips:      tripsRepo,
		activities: activitiesRepo,
		stays:      staysRepo,
		transport:  transportRepo,
	}
}

// Itinerary is the day-bucketed view of a trip.
type Itinerary struct {
	Trip domain.Trip
	Days []domain.ItineraryDay
}

// Get assembles the itinerary for a trip owned by the caller.
func (s *Service) Get(ctx context.Context, caller domain.UserID, tripID domain.TripID) (Itinerary, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return Itinerary{}, apperr.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return Itinerary{}, err
	}
	if t.OwnerID != caller {
		return Itinerary{}, apperr.NotFound("TRIP_NOT_FOUND", "trip not found")
	}

	acts, err := s.activities.ListByTrip(ctx, tripID)
	if err != nil {
		return Itinerary{}, fmt.Errorf("list activities: %w", err)
	}
	stays, err := s.stays.ListByTrip(ctx, tripID)
	if err != nil {
		return Itinerary{}, fmt.Errorf("list accommodations: %w", err)
	}
	transport, err := s.transport.ListByTrip(ctx, tripID)
	if err != nil {
		return Itinerary{}, fmt.Errorf("list transportation: %w", err)
	}

	return Itinerary{
		Trip: t,
		Days: domain.BuildItinerary(t, acts, stays, transport),
	}, nil
}
