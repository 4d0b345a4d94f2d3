package votes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pollboard/pollboard/backend/go-services/internal/polls"
)

// PollGetter is the slice of the poll service the vote service needs.
type PollGetter interface {
	GetByID(ctx context.Context, id string) (*polls.Poll, error)
}

// Service validates and records votes and computes tallies.
type Service struct {
	repo      Repository
	pollsView PollGetter
}

func NewService(r Repository, pv PollGetter) *Service {
	return &Service{repo: r, pollsView: pv}
}

// OptionCount is one row of a tally, in the poll's option order.
type OptionCount struct {
	Option string `json:"option"`
	Votes  int64  `json:"votes"`
}

// Tally is the vote distribution of one poll.
type Tally struct {
	PollID   string        `json:"pollId"`
	Question string        `json:"question"`
	Counts   []OptionCount `json:"counts"`
	Total    int64         `json:"total"`
}

// Submit records a vote on a poll. callerSub may be empty; anonymous votes
// are stored without a user id. The option index must address an existing
// option of the poll being voted on.
func (s *Service) Submit(ctx context.Context, callerSub, pollID string, optionIndex int) (*Vote, error) {
	p, err := s.pollsView.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return nil, fmt.Errorf("%w: option index %d out of range [0,%d)",
			polls.ErrValidation, optionIndex, len(p.Options))
	}
	v := &Vote{
		ID:          uuid.NewString(),
		PollID:      pollID,
		OptionIndex: optionIndex,
		CreatedAt:   time.Now().UTC(),
	}
	if callerSub != "" {
		v.UserID = &callerSub
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Results tallies the votes of a poll per option.
func (s *Service) Results(ctx context.Context, pollID string) (*Tally, error) {
	p, err := s.pollsView.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByOption(ctx, pollID)
	if err != nil {
		return nil, err
	}
	t := &Tally{
		PollID:   p.ID,
		Question: p.Question,
		Counts:   make([]OptionCount, len(p.Options)),
	}
	for i, opt := range p.Options {
		n := counts[i]
		t.Counts[i] = OptionCount{Option: opt, Votes: n}
		t.Total += n
	}
	return t, nil
}

// PurgeForPoll removes every vote of a deleted poll.
func (s *Service) PurgeForPoll(ctx context.Context, pollID string) (int64, error) {
	return s.repo.DeleteByPoll(ctx, pollID)
}
