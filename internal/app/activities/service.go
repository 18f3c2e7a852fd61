package activities

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/apperr"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/patch"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/activityrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
)

type Service struct {
	trips      triprepo.Repository
	activities activityrepo.Repository

	newActivityID func() domain.ActivityID
}

func NewService(tripsRepo triprepo.Repository, activitiesRepo activityrepo.Repository) *Service {
	return &Service{
		trips:      tripsRepo,
		activities: activitiesRepo,
		newActivityID: func() domain.ActivityID {
			return domain.ActivityID(uuid.NewString())
		},
	}
}

// SetNewActivityIDForTest overrides activity ID generation for deterministic
// tests. It should not be used in production code.
func (s *Service) SetNewActivityIDForTest(fn func() domain.ActivityID) {
	if fn != nil {
		s.newActivityID = fn
	}
}

type CreateActivityInput struct {
	Name        string
	Date        civil.Date
	Time        *civil.Time
	Description null.String
	Address     null.String
	Coordinates *domain.Coordinates
	Price       null.Int32
}

type UpdateActivityInput struct {
	// Name and Date are optional and cannot be null.
	Name patch.Optional[string]
	Date patch.Optional[civil.Date]

	Time        patch.Optional[civil.Time]
	Description patch.Optional[string]
	Address     patch.Optional[string]
	Coordinates patch.Optional[domain.Coordinates]
	Price       patch.Optional[int32]
}

func (s *Service) Create(ctx context.Context, caller domain.UserID, tripID domain.TripID, in CreateActivityInput) (domain.Activity, error) {
	t, err := ownedTrip(ctx, s.trips, caller, tripID)
	if err != nil {
		return domain.Activity{}, err
	}

	name := domain.NormalizeName(in.Name)
	if name == "" {
		return domain.Activity{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
	}
	if details := validateDate(t, in.Date); details != nil {
		return domain.Activity{}, apperr.Validation("invalid date", details)
	}
	if details := validatePrice(in.Price); details != nil {
		return domain.Activity{}, apperr.Validation("invalid price", details)
	}

	a := domain.Activity{
		ID:          s.newActivityID(),
		TripID:      tripID,
		Name:        name,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
		Address:     in.Address,
		Coordinates: in.Coordinates,
		Price:       in.Price,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return domain.Activity{}, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, caller domain.UserID, id domain.ActivityID) (domain.Activity, error) {
	return s.loadOwned(ctx, caller, id)
}

func (s *Service) ListByTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.Activity, error) {
	if _, err := ownedTrip(ctx, s.trips, caller, tripID); err != nil {
		return nil, err
	}
	return s.activities.ListByTrip(ctx, tripID)
}

func (s *Service) Update(ctx context.Context, caller domain.UserID, id domain.ActivityID, in UpdateActivityInput) (domain.Activity, error) {
	a, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return domain.Activity{}, err
	}
	t, err := ownedTrip(ctx, s.trips, caller, a.TripID)
	if err != nil {
		return domain.Activity{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Activity{}, apperr.Validation("invalid name", map[string]any{"name": "must not be null"})
		}
		name := domain.NormalizeName(in.Name.Value())
		if name == "" {
			return domain.Activity{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
		}
		a.Name = name
	}
	if in.Date.IsSpecified() {
		if in.Date.IsNull() {
			return domain.Activity{}, apperr.Validation("invalid date", map[string]any{"date": "must not be null"})
		}
		a.Date = in.Date.Value()
	}
	if details := validateDate(t, a.Date); details != nil {
		return domain.Activity{}, apperr.Validation("invalid date", details)
	}
	if in.Time.IsSpecified() {
		if in.Time.IsNull() {
			a.Time = nil
		} else {
			v := in.Time.Value()
			a.Time = &v
		}
	}
	if in.Coordinates.IsSpecified() {
		if in.Coordinates.IsNull() {
			a.Coordinates = nil
		} else {
			v := in.Coordinates.Value()
			a.Coordinates = &v
		}
	}
	applyNullableString(&a.Description, in.Description)
	applyNullableString(&a.Address, in.Address)
	if in.Price.IsSpecified() {
		if in.Price.IsNull() {
			a.Price = null.Int32{}
		} else {
			a.Price = null.Int32From(in.Price.Value())
		}
	}
	if details := validatePrice(a.Price); details != nil {
		return domain.Activity{}, apperr.Validation("invalid price", details)
	}

	if err := s.activities.Update(ctx, a); err != nil {
		return domain.Activity{}, fmt.Errorf("update activity: %w", err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, caller domain.UserID, id domain.ActivityID) error {
	a, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.activities.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return apperr.NotFound("ACTIVITY_NOT_FOUND", "activity not found")
		}
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

func (s *Service) loadOwned(ctx context.Context, caller domain.UserID, id domain.ActivityID) (domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return domain.Activity{}, apperr.NotFound("ACTIVITY_NOT_FOUND", "activity not found")
		}
		return domain.Activity{}, err
	}
	if _, err := ownedTrip(ctx, s.trips, caller, a.TripID); err != nil {
		// Resources of foreign trips read as absent.
		return domain.Activity{}, apperr.NotFound("ACTIVITY_NOT_FOUND", "activity not found")
	}
	return a, nil
}

func ownedTrip(ctx context.Context, repo triprepo.Repository, caller domain.UserID, tripID domain.TripID) (domain.Trip, error) {
	t, err := repo.GetByID(ctx, tripID)
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

func validateDate(t domain.Trip, d civil.Date) map[string]any {
	if !d.IsValid() {
		return map[string]any{"date": "must be a valid date"}
	}
	if !t.ContainsDate(d) {
		return map[string]any{"date": "must fall within the trip dates"}
	}
	return nil
}

func validatePrice(p null.Int32) map[string]any {
	if p.Valid && p.Int32 < 0 {
		return map[string]any{"price": "must not be negative"}
	}
	return nil
}

func applyNullableString(dst *null.String, p patch.Optional[string]) {
	if !p.IsSpecified() {
		return
	}
	if p.IsNull() {
		*dst = null.String{}
		return
	}
	*dst = null.StringFrom(p.Value())
}
