package polls

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory Repository used in tests and for running
// without MongoDB.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Poll
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[string]*Poll{}}
}

func clonePoll(p *Poll) *Poll {
	cp := *p
	cp.Options = append([]string(nil), p.Options...)
	return &cp
}

func (r *MemoryRepository) Create(ctx context.Context, p *Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = clonePoll(p)
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return clonePoll(p), nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Poll, 0)
	for _, id := range r.order {
		p := r.byID[id]
		if p != nil && p.OwnerID == ownerID {
			out = append(out, clonePoll(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Question = p.Question
	cur.Options = append([]string(nil), p.Options...)
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
