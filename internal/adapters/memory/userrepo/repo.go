package userrepo

import (
	"context"
	"sync"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu        sync.RWMutex
	byID      map[domain.UserID]domain.User
	bySubject map[domain.SubjectID]domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.UserID]domain.User),
		bySubject: make(map[domain.SubjectID]domain.UserID),
	}
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	if _, ok := r.bySubject[u.Subject]; ok {
		return userrepo.ErrSubjectAlreadyBound
	}
	r.byID[u.ID] = u
	r.bySubject[u.Subject] = u.ID
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return u, nil
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySubject[subject]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return r.byID[id], nil
}
