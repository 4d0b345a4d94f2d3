package users

import (
	"context"
	"testing"
	"time"

	"github.com/pollboard/pollboard/backend/go-services/internal/authclient"
	"github.com/pollboard/pollboard/backend/go-services/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	bySub map[string]*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bySub: map[string]*models.User{}}
}

func (f *fakeRepo) UpsertBySub(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	existing, ok := f.bySub[u.Sub]
	if ok {
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
	} else {
		u.ID = "oid-" + u.Sub
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	cp := *u
	f.bySub[u.Sub] = &cp
	return &cp, nil
}

func (f *fakeRepo) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	u, ok := f.bySub[sub]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func TestUpsertFromIdentity(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := svc.UpsertFromIdentity(ctx, &authclient.Identity{
		ID:    "sub-123",
		Email: "x@example.com",
		Name:  "X User",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "sub-123", u.Sub)
	assert.Equal(t, "x@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	// second upsert keeps the record and refreshes the profile
	u2, err := svc.UpsertFromIdentity(ctx, &authclient.Identity{
		ID:    "sub-123",
		Email: "x@example.com",
		Name:  "Renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
	assert.Equal(t, "Renamed", u2.Name)
}

func TestUpsertFromIdentityWithoutID(t *testing.T) {
	svc := NewService(newFakeRepo())

	u, err := svc.UpsertFromIdentity(context.Background(), &authclient.Identity{Email: "x@example.com"})
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = svc.UpsertFromIdentity(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGetBySub(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.UpsertFromIdentity(ctx, &authclient.Identity{ID: "sub-9", Name: "Nine"})
	require.NoError(t, err)

	u, err := svc.GetBySub(ctx, "sub-9")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Nine", u.Name)

	missing, err := svc.GetBySub(ctx, "sub-0")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
