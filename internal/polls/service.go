package polls

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pollboard/pollboard/backend/go-services/internal/sanitize"
)

// Service wraps the repository with validation and ownership checks. Caller
// identity is always an explicit argument; an empty sub means anonymous.
type Service struct {
	repo  Repository
	cache *ListingsCache
}

// NewService creates a poll service. cache may be nil.
func NewService(r Repository, cache *ListingsCache) *Service {
	return &Service{repo: r, cache: cache}
}

// normalizeInput sanitizes the question and options and enforces the poll
// shape: a non-empty question and at least two non-blank options. Options
// that sanitize to the empty string are dropped; the survivors keep their
// relative order.
func normalizeInput(question string, options []string) (string, []string, error) {
	q := sanitize.Text(question)
	if q == "" {
		return "", nil, fmt.Errorf("%w: question must not be empty", ErrValidation)
	}
	kept := make([]string, 0, len(options))
	for _, o := range sanitize.Options(append([]string(nil), options...)) {
		if o != "" {
			kept = append(kept, o)
		}
	}
	if len(kept) < 2 {
		return "", nil, fmt.Errorf("%w: at least two options are required", ErrValidation)
	}
	return q, kept, nil
}

// Create stores a new poll owned by callerSub.
func (s *Service) Create(ctx context.Context, callerSub, question string, options []string) (*Poll, error) {
	if callerSub == "" {
		return nil, ErrUnauthenticated
	}
	q, opts, err := normalizeInput(question, options)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &Poll{
		ID:        uuid.NewString(),
		OwnerID:   callerSub,
		Question:  q,
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, callerSub)
	return p, nil
}

// ListByOwner returns the caller's polls, newest first.
func (s *Service) ListByOwner(ctx context.Context, callerSub string) ([]*Poll, error) {
	if callerSub == "" {
		return nil, ErrUnauthenticated
	}
	if cached := s.cache.Get(ctx, callerSub); cached != nil {
		return cached, nil
	}
	listing, err := s.repo.ListByOwner(ctx, callerSub)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, callerSub, listing)
	return listing, nil
}

// GetByID returns a poll by id. Polls are shared by link, so no caller
// identity is required.
func (s *Service) GetByID(ctx context.Context, id string) (*Poll, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// requireOwned loads a poll and checks ownership, distinguishing a missing
// poll from one owned by someone else.
func (s *Service) requireOwned(ctx context.Context, callerSub, id string) (*Poll, error) {
	if callerSub == "" {
		return nil, ErrUnauthenticated
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.OwnerID != callerSub {
		return nil, ErrForbidden
	}
	return p, nil
}

// Update replaces the question and options of a poll the caller owns.
func (s *Service) Update(ctx context.Context, callerSub, id, question string, options []string) (*Poll, error) {
	p, err := s.requireOwned(ctx, callerSub, id)
	if err != nil {
		return nil, err
	}
	q, opts, err := normalizeInput(question, options)
	if err != nil {
		return nil, err
	}
	p.Question = q
	p.Options = opts
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, callerSub)
	return p, nil
}

// Delete removes a poll the caller owns.
func (s *Service) Delete(ctx context.Context, callerSub, id string) error {
	if _, err := s.requireOwned(ctx, callerSub, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, callerSub)
	return nil
}
