package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistAccessToken(t *testing.T) {
	SetBlacklistClient(newTestRedis(t))
	defer SetBlacklistClient(nil)
	ctx := context.Background()

	require.NoError(t, BlacklistAccessToken(ctx, "jwt-abc", time.Minute))

	black, err := IsAccessTokenBlacklisted(ctx, "jwt-abc")
	require.NoError(t, err)
	assert.True(t, black)

	black, err = IsAccessTokenBlacklisted(ctx, "jwt-other")
	require.NoError(t, err)
	assert.False(t, black)
}

func TestBlacklistWithoutClientIsNoop(t *testing.T) {
	SetBlacklistClient(nil)

	require.NoError(t, BlacklistAccessToken(context.Background(), "jwt-abc", time.Minute))
	black, err := IsAccessTokenBlacklisted(context.Background(), "jwt-abc")
	require.NoError(t, err)
	assert.False(t, black)
}
