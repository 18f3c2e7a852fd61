package transportrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/transportrepo"
)

// Repo is an in-memory implementation of transportrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TransportationID]domain.Transportation
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TransportationID]domain.Transportation),
	}
}

func (r *Repo) Create(ctx context.Context, t domain.Transportation) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return transportrepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTransportation(t)
	return nil
}

func (r *Repo) Update(ctx context.Context, t domain.Transportation) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return transportrepo.ErrNotFound
	}
	r.byID[t.ID] = cloneTransportation(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TransportationID) (domain.Transportation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.Transportation{}, transportrepo.ErrNotFound
	}
	return cloneTransportation(t), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Transportation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Transportation, 0)
	for _, t := range r.byID {
		if t.TripID == tripID {
			out = append(out, cloneTransportation(t))
		}
	}
	sortTransportation(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.TransportationID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return transportrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneTransportation(t domain.Transportation) domain.Transportation {
	cp := t
	if t.Flight != nil {
		f := domain.FlightDetail{
			Legs:        append([]domain.FlightLeg(nil), t.Flight.Legs...),
			BookingRefs: append([]domain.BookingRef(nil), t.Flight.BookingRefs...),
		}
		for i := range f.Legs {
			f.Legs[i].Origin.Coordinates = cloneCoordinatesPtr(f.Legs[i].Origin.Coordinates)
			f.Legs[i].Destination.Coordinates = cloneCoordinatesPtr(f.Legs[i].Destination.Coordinates)
		}
		cp.Flight = &f
	}
	if t.Train != nil {
		tr := domain.TrainDetail{Legs: append([]domain.TrainLeg(nil), t.Train.Legs...)}
		for i := range tr.Legs {
			tr.Legs[i].Origin.Coordinates = cloneCoordinatesPtr(tr.Legs[i].Origin.Coordinates)
			tr.Legs[i].Destination.Coordinates = cloneCoordinatesPtr(tr.Legs[i].Destination.Coordinates)
		}
		cp.Train = &tr
	}
	if t.Generic != nil {
		g := *t.Generic
		g.Origin = cloneCoordinatesPtr(t.Generic.Origin)
		g.Destination = cloneCoordinatesPtr(t.Generic.Destination)
		cp.Generic = &g
	}
	return cp
}

func cloneCoordinatesPtr(p *domain.Coordinates) *domain.Coordinates {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortTransportation(ts []domain.Transportation) {
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		da, aok := a.DepartureTime()
		db, bok := b.DepartureTime()
		if aok && bok {
			if da != db {
				return da.Before(db)
			}
			return a.ID < b.ID
		}
		if aok != bok {
			return aok // malformed items sort last
		}
		return a.ID < b.ID
	})
}
