package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	byRefresh map[string]*Session
}

func newMemRepo() *memRepo {
	return &memRepo{byRefresh: map[string]*Session{}}
}

func (m *memRepo) Create(ctx context.Context, s *Session) error {
	cp := *s
	m.byRefresh[s.RefreshToken] = &cp
	return nil
}

func (m *memRepo) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	s, ok := m.byRefresh[refresh]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(m.byRefresh, refresh)
	return nil
}

func (m *memRepo) DeleteBySub(ctx context.Context, sub string) error {
	for k, s := range m.byRefresh {
		if s.Sub == sub {
			delete(m.byRefresh, k)
		}
	}
	return nil
}

func TestCreateAndValidateRefresh(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, "user-1", "", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, refresh)

	sess, err := svc.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "user-1", sess.Sub)

	sess, err = svc.ValidateRefresh(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestValidateRefreshExpired(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, "user-1", "", -time.Minute)
	require.NoError(t, err)

	sess, err := svc.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Empty(t, repo.byRefresh, "expired session should be removed")
}

func TestRotateInvalidatesOldToken(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	old, err := svc.CreateSession(ctx, "user-1", "", time.Hour)
	require.NoError(t, err)
	sess, err := svc.ValidateRefresh(ctx, old)
	require.NoError(t, err)
	require.NotNil(t, sess)

	fresh, err := svc.Rotate(ctx, sess, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, old, fresh)

	gone, err := svc.ValidateRefresh(ctx, old)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := svc.ValidateRefresh(ctx, fresh)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "user-1", kept.Sub)
}

func TestRevokeAll(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	r1, err := svc.CreateSession(ctx, "user-1", "", time.Hour)
	require.NoError(t, err)
	r2, err := svc.CreateSession(ctx, "user-1", "", time.Hour)
	require.NoError(t, err)
	other, err := svc.CreateSession(ctx, "user-2", "", time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(context.Background(), "user-1"))

	for _, r := range []string{r1, r2} {
		sess, err := svc.ValidateRefresh(ctx, r)
		require.NoError(t, err)
		assert.Nil(t, sess)
	}
	sess, err := svc.ValidateRefresh(ctx, other)
	require.NoError(t, err)
	assert.NotNil(t, sess)
}
