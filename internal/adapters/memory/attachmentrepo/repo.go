package attachmentrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/attachmentrepo"
)

// Repo is an in-memory implementation of attachmentrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.AttachmentID]domain.Attachment
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.AttachmentID]domain.Attachment),
	}
}

func (r *Repo) Create(ctx context.Context, a domain.Attachment) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; ok {
		return attachmentrepo.ErrAlreadyExists
	}
	cp := a
	cp.Blob = append([]byte(nil), a.Blob...)
	r.byID[a.ID] = cp
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AttachmentID) (domain.Attachment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Attachment{}, attachmentrepo.ErrNotFound
	}
	cp := a
	cp.Blob = append([]byte(nil), a.Blob...)
	return cp, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.AttachmentInfo, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AttachmentInfo, 0)
	for _, a := range r.byID {
		if a.TripID == tripID {
			out = append(out, domain.AttachmentInfo{
				ID:          a.ID,
				TripID:      a.TripID,
				Name:        a.Name,
				ContentType: a.ContentType,
				Size:        int64(len(a.Blob)),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.AttachmentID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return attachmentrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
