package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollboard/pollboard/backend/go-services/internal/config"
	"github.com/pollboard/pollboard/backend/go-services/internal/models"
	"github.com/pollboard/pollboard/backend/go-services/internal/sessions"
)

func TestBlacklistVerifierRejectsRevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer sessions.SetBlacklistClient(nil)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	raw, err := GenerateAccessToken(cfg, &models.User{Sub: "user-1"}, time.Minute)
	require.NoError(t, err)

	ver := NewBlacklistVerifier(NewHMACVerifier("test-secret"))
	ctx := context.Background()

	tok, err := ver.Verify(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, tok)

	require.NoError(t, sessions.BlacklistAccessToken(ctx, raw, time.Minute))

	_, err = ver.Verify(ctx, raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}
