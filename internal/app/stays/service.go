package stays

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
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/stayrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
)

type Service struct {
	trips triprepo.Repository
	stays stayrepo.Repository

	newStayID func() domain.AccommodationID
}

func NewService(tripsRepo triprepo.Repository, staysRepo stayrepo.Repository) *Service {
	return &Service{
		trips: tripsRepo,
		stays: staysRepo,
		newStayID: func() domain.AccommodationID {
			return domain.AccommodationID(uuid.NewString())
		},
	}
}

// SetNewStayIDForTest overrides accommodation ID generation for deterministic
// tests. It should not be used in production code.
func (s *Service) SetNewStayIDForTest(fn func() domain.AccommodationID) {
	if fn != nil {
		s.newStayID = fn
	}
}

type CreateStayInput struct {
	Name          string
	ArrivalDate   civil.Date
	DepartureDate civil.Date
	CheckInTime   *civil.Time
	CheckOutTime  *civil.Time
	Description   null.String
	Address       null.String
	Coordinates   *domain.Coordinates
	Price         null.Int32
}

type UpdateStayInput struct {
	// Name and the two dates are optional and cannot be null.
	Name          patch.Optional[string]
	ArrivalDate   patch.Optional[civil.Date]
	DepartureDate patch.Optional[civil.Date]

	CheckInTime  patch.Optional[civil.Time]
	CheckOutTime patch.Optional[civil.Time]
	Description  patch.Optional[string]
	Address      patch.Optional[string]
	Coordinates  patch.Optional[domain.Coordinates]
	Price        patch.Optional[int32]
}

func (s *Service) Create(ctx context.Context, caller domain.UserID, tripID domain.TripID, in CreateStayInput) (domain.Accommodation, error) {
	t, err := s.ownedTrip(ctx, caller, tripID)
	if err != nil {
		return domain.Accommodation{}, err
	}

	name := domain.NormalizeName(in.Name)
	if name == "" {
		return domain.Accommodation{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
	}
	if details := validateStayDates(t, in.ArrivalDate, in.DepartureDate); details != nil {
		return domain.Accommodation{}, apperr.Validation("invalid dates", details)
	}
	if in.Price.Valid && in.Price.Int32 < 0 {
		return domain.Accommodation{}, apperr.Validation("invalid price", map[string]any{"price": "must not be negative"})
	}

	a := domain.Accommodation{
		ID:            s.newStayID(),
		TripID:        tripID,
		Name:          name,
		ArrivalDate:   in.ArrivalDate,
		DepartureDate: in.DepartureDate,
		CheckInTime:   in.CheckInTime,
		CheckOutTime:  in.CheckOutTime,
		Description:   in.Description,
		Address:       in.Address,
		Coordinates:   in.Coordinates,
		Price:         in.Price,
	}
	if err := s.stays.Create(ctx, a); err != nil {
		return domain.Accommodation{}, fmt.Errorf("create accommodation: %w", err)
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, caller domain.UserID, id domain.AccommodationID) (domain.Accommodation, error) {
	return s.loadOwned(ctx, caller, id)
}

func (s *Service) ListByTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.Accommodation, error) {
	if _, err := s.ownedTrip(ctx, caller, tripID); err != nil {
		return nil, err
	}
	return s.stays.ListByTrip(ctx, tripID)
}

func (s *Service) Update(ctx context.Context, caller domain.UserID, id domain.AccommodationID, in UpdateStayInput) (domain.Accommodation, error) {
	a, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return domain.Accommodation{}, err
	}
	t, err := s.ownedTrip(ctx, caller, a.TripID)
	if err != nil {
		return domain.Accommodation{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Accommodation{}, apperr.Validation("invalid name", map[string]any{"name": "must not be null"})
		}
		name := domain.NormalizeName(in.Name.Value())
		if name == "" {
			return domain.Accommodation{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
		}
		a.Name = name
	}
	if in.ArrivalDate.IsSpecified() {
		if in.ArrivalDate.IsNull() {
			return domain.Accommodation{}, apperr.Validation("invalid dates", map[string]any{"arrivalDate": "must not be null"})
		}
		a.ArrivalDate = in.ArrivalDate.Value()
	}
	if in.DepartureDate.IsSpecified() {
		if in.DepartureDate.IsNull() {
			return domain.Accommodation{}, apperr.Validation("invalid dates", map[string]any{"departureDate": "must not be null"})
		}
		a.DepartureDate = in.DepartureDate.Value()
	}
	if details := validateStayDates(t, a.ArrivalDate, a.DepartureDate); details != nil {
		return domain.Accommodation{}, apperr.Validation("invalid dates", details)
	}
	applyTime(&a.CheckInTime, in.CheckInTime)
	applyTime(&a.CheckOutTime, in.CheckOutTime)
	applyNullableString(&a.Description, in.Description)
	applyNullableString(&a.Address, in.Address)
	if in.Coordinates.IsSpecified() {
		if in.Coordinates.IsNull() {
			a.Coordinates = nil
		} else {
			v := in.Coordinates.Value()
			a.Coordinates = &v
		}
	}
	if in.Price.IsSpecified() {
		if in.Price.IsNull() {
			a.Price = null.Int32{}
		} else {
			a.Price = null.Int32From(in.Price.Value())
		}
	}
	if a.Price.Valid && a.Price.Int32 < 0 {
		return domain.Accommodation{}, apperr.Validation("invalid price", map[string]any{"price": "must not be negative"})
	}

	if err := s.stays.Update(ctx, a); err != nil {
		return domain.Accommodation{}, fmt.Errorf("update accommodation: %w", err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, caller domain.UserID, id domain.AccommodationID) error {
	a, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.stays.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, stayrepo.ErrNotFound) {
			return apperr.NotFound("ACCOMMODATION_NOT_FOUND", "accommodation not found")
		}
		return fmt.Errorf("delete accommodation: %w", err)
	}
	return nil
}

func (s *Service) loadOwned(ctx context.Context, caller domain.UserID, id domain.AccommodationID) (domain.Accommodation, error) {
	a, err := s.stays.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, stayrepo.ErrNotFound) {
			return domain.Accommodation{}, apperr.NotFound("ACCOMMODATION_NOT_FOUND", "accommodation not found")
		}
		return domain.Accommodation{}, err
	}
	if _, err := s.ownedTrip(ctx, caller, a.TripID); err != nil {
		return domain.Accommodation{}, apperr.NotFound("ACCOMMODATION_NOT_FOUND", "accommodation not found")
	}
	return a, nil
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

func validateStayDates(t domain.Trip, arrival, departure civil.Date) map[string]any {
	if !arrival.IsValid() {
		return map[string]any{"arrivalDate": "must be a valid date"}
	}
	if !departure.IsValid() {
		return map[string]any{"departureDate": "must be a valid date"}
	}
	if !departure.After(arrival) {
		return map[string]any{"departureDate": "must be after arrivalDate"}
	}
	if !t.ContainsDate(arrival) {
		return map[string]any{"arrivalDate": "must fall within the trip dates"}
	}
	if !t.ContainsDate(departure) {
		return map[string]any{"departureDate": "must fall within the trip dates"}
	}
	return nil
}

func applyTime(dst **civil.Time, p patch.Optional[civil.Time]) {
	if !p.IsSpecified() {
		return
	}
	if p.IsNull() {
		*dst = nil
		return
	}
	v := p.Value()
	*dst = &v
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
