package votes

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository used in tests and for running
// without MongoDB.
type MemoryRepository struct {
	mu    sync.RWMutex
	votes []*Vote
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, v *Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.votes = append(r.votes, &cp)
	return nil
}

func (r *MemoryRepository) CountByOption(ctx context.Context, pollID string) (map[int]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[int]int64{}
	for _, v := range r.votes {
		if v.PollID == pollID {
			counts[v.OptionIndex]++
		}
	}
	return counts, nil
}

func (r *MemoryRepository) DeleteByPoll(ctx context.Context, pollID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.votes[:0]
	var removed int64
	for _, v := range r.votes {
		if v.PollID == pollID {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	r.votes = kept
	return removed, nil
}
