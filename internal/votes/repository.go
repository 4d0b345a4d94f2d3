package votes

import "context"

// Repository persists votes.
type Repository interface {
	Create(ctx context.Context, v *Vote) error
	// CountByOption returns optionIndex -> vote count for one poll. Options
	// with no votes are absent from the map.
	CountByOption(ctx context.Context, pollID string) (map[int]int64, error)
	// DeleteByPoll removes all votes of a poll, returning how many went.
	DeleteByPoll(ctx context.Context, pollID string) (int64, error)
}
