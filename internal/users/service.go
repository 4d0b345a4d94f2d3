package users

import (
	"context"

	"github.com/pollboard/pollboard/backend/go-services/internal/authclient"
	"github.com/pollboard/pollboard/backend/go-services/internal/models"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertFromIdentity creates or refreshes the local projection of a provider
// identity. Returns nil when the identity carries no id.
func (s *Service) UpsertFromIdentity(ctx context.Context, id *authclient.Identity) (*models.User, error) {
	if id == nil || id.ID == "" {
		return nil, nil
	}
	u := &models.User{
		Sub:   id.ID,
		Email: id.Email,
		Name:  id.Name,
	}
	return s.repo.UpsertBySub(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}
