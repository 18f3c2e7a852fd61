package stayrepo

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/stayrepo"
)

// Repo is an in-memory implementation of stayrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.AccommodationID]domain.Accommodation
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.AccommodationID]domain.Accommodation),
	}
}

func (r *Repo) Create(ctx context.Context, a domain.Accommodation) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; ok {
		return stayrepo.ErrAlreadyExists
	}
	r.byID[a.ID] = cloneStay(a)
	return nil
}

func (r *Repo) Update(ctx context.Context, a domain.Accommodation) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return stayrepo.ErrNotFound
	}
	r.byID[a.ID] = cloneStay(a)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AccommodationID) (domain.Accommodation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Accommodation{}, stayrepo.ErrNotFound
	}
	return cloneStay(a), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Accommodation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Accommodation, 0)
	for _, a := range r.byID {
		if a.TripID == tripID {
			out = append(out, cloneStay(a))
		}
	}
	sortStays(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.AccommodationID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return stayrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneStay(a domain.Accommodation) domain.Accommodation {
	cp := a
	cp.CheckInTime = cloneTimePtr(a.CheckInTime)
	cp.CheckOutTime = cloneTimePtr(a.CheckOutTime)
	if a.Coordinates != nil {
		v := *a.Coordinates
		cp.Coordinates = &v
	}
	return cp
}

func cloneTimePtr(p *civil.Time) *civil.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortStays(as []domain.Accommodation) {
	sort.Slice(as, func(i, j int) bool {
		a, b := as[i], as[j]
		if a.ArrivalDate != b.ArrivalDate {
			return a.ArrivalDate.Before(b.ArrivalDate)
		}
		return a.ID < b.ID
	})
}
