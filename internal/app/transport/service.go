package transport

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/apperr"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/transportrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
)

type Service struct {
	trips     triprepo.Repository
	transport transportrepo.Repository

	newTransportationID func() domain.TransportationID
}

func NewService(tripsRepo triprepo.Repository, transportRepo transportrepo.Repository) *Service {
	return &Service{
		trips:     tripsRepo,
		transport: transportRepo,
		newTransportationID: func() domain.TransportationID {
			return domain.TransportationID(uuid.NewString())
		},
	}
}

// SetNewTransportationIDForTest overrides ID generation for deterministic
// tests. It should not be used in production code.
func (s *Service) SetNewTransportationIDForTest(fn func() domain.TransportationID) {
	if fn != nil {
		s.newTransportationID = fn
	}
}

type CreateFlightInput struct {
	Price  null.Int32
	Detail domain.FlightDetail
}

type CreateTrainInput struct {
	Price  null.Int32
	Detail domain.TrainDetail
}

type CreateGenericInput struct {
	Price  null.Int32
	Detail domain.GenericDetail
}

func (s *Service) CreateFlight(ctx context.Context, caller domain.UserID, tripID domain.TripID, in CreateFlightInput) (domain.Transportation, error) {
	if _, err := s.ownedTrip(ctx, caller, tripID); err != nil {
		return domain.Transportation{}, err
	}
	if details := validateFlight(in.Detail); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid flight", details)
	}
	if details := validatePrice(in.Price); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid price", details)
	}
	detail := in.Detail
	t := domain.Transportation{
		ID:     s.newTransportationID(),
		TripID: tripID,
		Kind:   domain.KindFlight,
		Price:  in.Price,
		Flight: &detail,
	}
	if err := s.transport.Create(ctx, t); err != nil {
		return domain.Transportation{}, fmt.Errorf("create flight: %w", err)
	}
	return t, nil
}

func (s *Service) CreateTrain(ctx context.Context, caller domain.UserID, tripID domain.TripID, in CreateTrainInput) (domain.Transportation, error) {
	if _, err := s.ownedTrip(ctx, caller, tripID); err != nil {
		return domain.Transportation{}, err
	}
	if details := validateTrain(in.Detail); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid train journey", details)
	}
	if details := validatePrice(in.Price); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid price", details)
	}
	detail := in.Detail
	t := domain.Transportation{
		ID:     s.newTransportationID(),
		TripID: tripID,
		Kind:   domain.KindTrain,
		Price:  in.Price,
		Train:  &detail,
	}
	if err := s.transport.Create(ctx, t); err != nil {
		return domain.Transportation{}, fmt.Errorf("create train journey: %w", err)
	}
	return t, nil
}

func (s *Service) CreateGeneric(ctx context.Context, caller domain.UserID, tripID domain.TripID, in CreateGenericInput) (domain.Transportation, error) {
	if _, err := s.ownedTrip(ctx, caller, tripID); err != nil {
		return domain.Transportation{}, err
	}
	if details := validateGeneric(in.Detail); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid transportation", details)
	}
	if details := validatePrice(in.Price); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid price", details)
	}
	detail := in.Detail
	detail.Name = domain.NormalizeName(detail.Name)
	t := domain.Transportation{
		ID:      s.newTransportationID(),
		TripID:  tripID,
		Kind:    domain.KindGeneric,
		Price:   in.Price,
		Generic: &detail,
	}
	if err := s.transport.Create(ctx, t); err != nil {
		return domain.Transportation{}, fmt.Errorf("create transportation: %w", err)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, caller domain.UserID, id domain.TransportationID) (domain.Transportation, error) {
	return s.loadOwned(ctx, caller, id)
}

func (s *Service) ListByTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.Transportation, error) {
	if _, err := s.ownedTrip(ctx, caller, tripID); err != nil {
		return nil, err
	}
	return s.transport.ListByTrip(ctx, tripID)
}

// UpdateFlight replaces the detail payload and price of an existing flight.
// Detail payloads are replaced wholesale rather than patched: a multi-leg
// journey is edited as a unit.
func (s *Service) UpdateFlight(ctx context.Context, caller domain.UserID, id domain.TransportationID, in CreateFlightInput) (domain.Transportation, error) {
	t, err := s.loadOwnedOfKind(ctx, caller, id, domain.KindFlight)
	if err != nil {
		return domain.Transportation{}, err
	}
	if details := validateFlight(in.Detail); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid flight", details)
	}
	if details := validatePrice(in.Price); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid price", details)
	}
	detail := in.Detail
	t.Price = in.Price
	t.Flight = &detail
	if err := s.transport.Update(ctx, t); err != nil {
		return domain.Transportation{}, fmt.Errorf("update flight: %w", err)
	}
	return t, nil
}

// UpdateTrain replaces the detail payload and price of an existing train journey.
func (s *Service) UpdateTrain(ctx context.Context, caller domain.UserID, id domain.TransportationID, in CreateTrainInput) (domain.Transportation, error) {
	t, err := s.loadOwnedOfKind(ctx, caller, id, domain.KindTrain)
	if err != nil {
		return domain.Transportation{}, err
	}
	if details := validateTrain(in.Detail); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid train journey", details)
	}
	if details := validatePrice(in.Price); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid price", details)
	}
	detail := in.Detail
	t.Price = in.Price
	t.Train = &detail
	if err := s.transport.Update(ctx, t); err != nil {
		return domain.Transportation{}, fmt.Errorf("update train journey: %w", err)
	}
	return t, nil
}

// UpdateGeneric replaces the detail payload and price of an existing generic item.
func (s *Service) UpdateGeneric(ctx context.Context, caller domain.UserID, id domain.TransportationID, in CreateGenericInput) (domain.Transportation, error) {
	t, err := s.loadOwnedOfKind(ctx, caller, id, domain.KindGeneric)
	if err != nil {
		return domain.Transportation{}, err
	}
	if details := validateGeneric(in.Detail); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid transportation", details)
	}
	if details := validatePrice(in.Price); details != nil {
		return domain.Transportation{}, apperr.Validation("invalid price", details)
	}
	detail := in.Detail
	detail.Name = domain.NormalizeName(detail.Name)
	t.Price = in.Price
	t.Generic = &detail
	if err := s.transport.Update(ctx, t); err != nil {
		return domain.Transportation{}, fmt.Errorf("update transportation: %w", err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, caller domain.UserID, id domain.TransportationID) error {
	t, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.transport.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, transportrepo.ErrNotFound) {
			return apperr.NotFound("TRANSPORTATION_NOT_FOUND", "transportation not found")
		}
		return fmt.Errorf("delete transportation: %w", err)
	}
	return nil
}

func (s *Service) loadOwned(ctx context.Context, caller domain.UserID, id domain.TransportationID) (domain.Transportation, error) {
	t, err := s.transport.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, transportrepo.ErrNotFound) {
			return domain.Transportation{}, apperr.NotFound("TRANSPORTATION_NOT_FOUND", "transportation not found")
		}
		return domain.Transportation{}, err
	}
	if _, err := s.ownedTrip(ctx, caller, t.TripID); err != nil {
		// Resources of foreign trips read as absent.
		return domain.Transportation{}, apperr.NotFound("TRANSPORTATION_NOT_FOUND", "transportation not found")
	}
	return t, nil
}

func (s *Service) loadOwnedOfKind(ctx context.Context, caller domain.UserID, id domain.TransportationID, kind domain.TransportationKind) (domain.Transportation, error) {
	t, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return domain.Transportation{}, err
	}
	if t.Kind != kind {
		return domain.Transportation{}, apperr.Validation("kind mismatch", map[string]any{"kind": fmt.Sprintf("item is %s, not %s", t.Kind, kind)})
	}
	return t, nil
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

func validateFlight(d domain.FlightDetail) map[string]any {
	if len(d.Legs) == 0 {
		return map[string]any{"legs": "must contain at least one leg"}
	}
	var prevArrival civil.DateTime
	for i, leg := range d.Legs {
		key := fmt.Sprintf("legs[%d]", i)
		if leg.Origin.IATA == "" || leg.Destination.IATA == "" {
			return map[string]any{key: "origin and destination airports are required"}
		}
		if details := validateLegTimes(key, leg.Departure, leg.Arrival, i, prevArrival); details != nil {
			return details
		}
		prevArrival = leg.Arrival
	}
	for i, ref := range d.BookingRefs {
		if ref.Reference == "" {
			return map[string]any{fmt.Sprintf("bookingRefs[%d]", i): "reference must be non-empty"}
		}
	}
	return nil
}

func validateTrain(d domain.TrainDetail) map[string]any {
	if len(d.Legs) == 0 {
		return map[string]any{"legs": "must contain at least one leg"}
	}
	var prevArrival civil.DateTime
	for i, leg := range d.Legs {
		key := fmt.Sprintf("legs[%d]", i)
		if leg.Origin.Name == "" || leg.Destination.Name == "" {
			return map[string]any{key: "origin and destination stations are required"}
		}
		if details := validateLegTimes(key, leg.Departure, leg.Arrival, i, prevArrival); details != nil {
			return details
		}
		prevArrival = leg.Arrival
	}
	return nil
}

func validateGeneric(d domain.GenericDetail) map[string]any {
	if domain.NormalizeName(d.Name) == "" {
		return map[string]any{"name": "must be non-empty"}
	}
	switch d.Mode {
	case domain.ModeBus, domain.ModeFerry, domain.ModeBoat, domain.ModeBike, domain.ModeCar, domain.ModeHike, domain.ModeOther:
	default:
		return map[string]any{"mode": "unknown mode"}
	}
	if !d.Departure.IsValid() || !d.Arrival.IsValid() {
		return map[string]any{"departure": "departure and arrival must be valid timestamps"}
	}
	if d.Arrival.Before(d.Departure) {
		return map[string]any{"arrival": "must not be before departure"}
	}
	return nil
}

// validateLegTimes enforces per-leg and cross-leg chronology: each leg must
// arrive after it departs, and must not depart before the previous leg arrived.
func validateLegTimes(key string, dep, arr civil.DateTime, i int, prevArrival civil.DateTime) map[string]any {
	if !dep.IsValid() || !arr.IsValid() {
		return map[string]any{key: "departure and arrival must be valid timestamps"}
	}
	if !arr.After(dep) {
		return map[string]any{key: "arrival must be after departure"}
	}
	if i > 0 && dep.Before(prevArrival) {
		return map[string]any{key: "must not depart before the previous leg arrives"}
	}
	return nil
}

func validatePrice(p null.Int32) map[string]any {
	if p.Valid && p.Int32 < 0 {
		return map[string]any{"price": "must not be negative"}
	}
	return nil
}
