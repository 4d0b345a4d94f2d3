package polls

import "context"

// Repository persists polls. Implementations return (nil, nil) for lookups
// that find nothing; ownership decisions live in the service.
type Repository interface {
	Create(ctx context.Context, p *Poll) error
	GetByID(ctx context.Context, id string) (*Poll, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Poll, error)
	Update(ctx context.Context, p *Poll) error
	Delete(ctx context.Context, id string) error
}
