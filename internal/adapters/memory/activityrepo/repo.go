package activityrepo

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/activityrepo"
)

// Repo is an in-memory implementation of activityrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ActivityID]domain.Activity
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ActivityID]domain.Activity),
	}
}

func (r *Repo) Create(ctx context.Context, a domain.Activity) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; ok {
		return activityrepo.ErrAlreadyExists
	}
	r.byID[a.ID] = cloneActivity(a)
	return nil
}

func (r *Repo) Update(ctx context.Context, a domain.Activity) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return activityrepo.ErrNotFound
	}
	r.byID[a.ID] = cloneActivity(a)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ActivityID) (domain.Activity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Activity{}, activityrepo.ErrNotFound
	}
	return cloneActivity(a), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Activity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Activity, 0)
	for _, a := range r.byID {
		if a.TripID == tripID {
			out = append(out, cloneActivity(a))
		}
	}
	sortActivities(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ActivityID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return activityrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneActivity(a domain.Activity) domain.Activity {
	cp := a
	cp.Time = cloneTimePtr(a.Time)
	cp.Coordinates = cloneCoordinatesPtr(a.Coordinates)
	return cp
}

func cloneTimePtr(p *civil.Time) *civil.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneCoordinatesPtr(p *domain.Coordinates) *domain.Coordinates {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortActivities(as []domain.Activity) {
	// Date ascending, timed before untimed within a day, ID as tie-breaker.
	sort.Slice(as, func(i, j int) bool {
		a, b := as[i], as[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		switch {
		case a.Time != nil && b.Time == nil:
			return true
		case a.Time == nil && b.Time != nil:
			return false
		case a.Time != nil && b.Time != nil && *a.Time != *b.Time:
			return beforeTime(*a.Time, *b.Time)
		}
		return a.ID < b.ID
	})
}

func beforeTime(a, b civil.Time) bool {
	if a.Hour != b.Hour {
		return a.Hour < b.Hour
	}
	if a.Minute != b.Minute {
		return a.Minute < b.Minute
	}
	return a.Second < b.Second
}
