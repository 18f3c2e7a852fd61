package trips

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
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/attachmentrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/stayrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/transportrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
)

type Service struct {
	trips       triprepo.Repository
	activities  activityrepo.Repository
	stays       stayrepo.Repository
	transport   transportrepo.Repository
	attachments attachmentrepo.Repository

	newTripID func() domain.TripID
}

func NewService(
	tripsRepo triprepo.Repository,
	activitiesRepo activityrepo.Repository,
	staysRepo stayrepo.Repository,
	transportRepo transportrepo.Repository,
	attachmentsRepo attachmentrepo.Repository,
) *Service {
	return &Service{
		trips:       tripsRepo,
		activities:  activitiesRepo,
		stays:       staysRepo,
		transport:   transportRepo,
		attachments: attachmentsRepo,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

type CreateTripInput struct {
	Name        string
	StartDate   civil.Date
	EndDate     civil.Date
	Description null.String
	ImageURL    null.String
}

type UpdateTripInput struct {
	// Name is optional and cannot be null.
	Name patch.Optional[string]

	// StartDate and EndDate are optional and cannot be null.
	StartDate patch.Optional[civil.Date]
	EndDate   patch.Optional[civil.Date]

	Description patch.Optional[string]
	ImageURL    patch.Optional[string]
}

func (s *Service) Create(ctx context.Context, caller domain.UserID, in CreateTripInput) (domain.Trip, error) {
	name := domain.NormalizeName(in.Name)
	if name == "" {
		return domain.Trip{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
	}
	if details := validateDateRange(in.StartDate, in.EndDate); details != nil {
		return domain.Trip{}, apperr.Validation("invalid dates", details)
	}

	t := domain.Trip{
		ID:          s.newTripID(),
		OwnerID:     caller,
		Name:        name,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return domain.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, caller domain.UserID, tripID domain.TripID) (domain.Trip, error) {
	return s.loadOwned(ctx, caller, tripID)
}

func (s *Service) List(ctx context.Context, caller domain.UserID) ([]domain.Trip, error) {
	return s.trips.ListByOwner(ctx, caller)
}

func (s *Service) Update(ctx context.Context, caller domain.UserID, tripID domain.TripID, in UpdateTripInput) (domain.Trip, error) {
	t, err := s.loadOwned(ctx, caller, tripID)
	if err != nil {
		return domain.Trip{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Trip{}, apperr.Validation("invalid name", map[string]any{"name": "must not be null"})
		}
		name := domain.NormalizeName(in.Name.Value())
		if name == "" {
			return domain.Trip{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
		}
		t.Name = name
	}
	if in.StartDate.IsSpecified() {
		if in.StartDate.IsNull() {
			return domain.Trip{}, apperr.Validation("invalid dates", map[string]any{"startDate": "must not be null"})
		}
		t.StartDate = in.StartDate.Value()
	}
	if in.EndDate.IsSpecified() {
		if in.EndDate.IsNull() {
			return domain.Trip{}, apperr.Validation("invalid dates", map[string]any{"endDate": "must not be null"})
		}
		t.EndDate = in.EndDate.Value()
	}
	if details := validateDateRange(t.StartDate, t.EndDate); details != nil {
		return domain.Trip{}, apperr.Validation("invalid dates", details)
	}
	applyNullableString(&t.Description, in.Description)
	applyNullableString(&t.ImageURL, in.ImageURL)

	if err := s.trips.Update(ctx, t); err != nil {
		return domain.Trip{}, fmt.Errorf("update trip: %w", err)
	}
	return t, nil
}

// Delete removes the trip and all resources owned by it. Child deletion is
// coordinated here so the in-memory and postgres backends behave alike.
func (s *Service) Delete(ctx context.Context, caller domain.UserID, tripID domain.TripID) error {
	if _, err := s.loadOwned(ctx, caller, tripID); err != nil {
		return err
	}

	acts, err := s.activities.ListByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}
	for _, a := range acts {
		if err := s.activities.Delete(ctx, a.ID); err != nil && !errors.Is(err, activityrepo.ErrNotFound) {
			return fmt.Errorf("delete activity: %w", err)
		}
	}

	stays, err := s.stays.ListByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("list accommodations: %w", err)
	}
	for _, st := range stays {
		if err := s.stays.Delete(ctx, st.ID); err != nil && !errors.Is(err, stayrepo.ErrNotFound) {
			return fmt.Errorf("delete accommodation: %w", err)
		}
	}

	ts, err := s.transport.ListByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("list transportation: %w", err)
	}
	for _, tr := range ts {
		if err := s.transport.Delete(ctx, tr.ID); err != nil && !errors.Is(err, transportrepo.ErrNotFound) {
			return fmt.Errorf("delete transportation: %w", err)
		}
	}

	atts, err := s.attachments.ListByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	for _, at := range atts {
		if err := s.attachments.Delete(ctx, at.ID); err != nil && !errors.Is(err, attachmentrepo.ErrNotFound) {
			return fmt.Errorf("delete attachment: %w", err)
		}
	}

	if err := s.trips.Delete(ctx, tripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return apperr.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return fmt.Errorf("delete trip: %w", err)
	}
	return nil
}

func (s *Service) loadOwned(ctx context.Context, caller domain.UserID, tripID domain.TripID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, apperr.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return domain.Trip{}, err
	}
	if t.OwnerID != caller {
		// Foreign trips read as absent, even when they exist.
		return domain.Trip{}, apperr.NotFound("TRIP_NOT_FOUND", "trip not found")
	}
	return t, nil
}

func validateDateRange(start, end civil.Date) map[string]any {
	if !start.IsValid() {
		return map[string]any{"startDate": "must be a valid date"}
	}
	if !end.IsValid() {
		return map[string]any{"endDate": "must be a valid date"}
	}
	if end.Before(start) {
		return map[string]any{"endDate": "must not be before startDate"}
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
