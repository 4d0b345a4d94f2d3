package tokens

import (
	"context"
	"fmt"

	"github.com/pollboard/pollboard/backend/go-services/internal/sessions"
	"github.com/pollboard/pollboard/backend/go-services/pkg/middleware"
)

// BlacklistVerifier rejects tokens revoked through logout before handing off
// to the wrapped verifier.
type BlacklistVerifier struct {
	inner middleware.Verifier
}

func NewBlacklistVerifier(inner middleware.Verifier) *BlacklistVerifier {
	return &BlacklistVerifier{inner: inner}
}

func (v *BlacklistVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	black, err := sessions.IsAccessTokenBlacklisted(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("blacklist lookup: %w", err)
	}
	if black {
		return nil, fmt.Errorf("token revoked")
	}
	return v.inner.Verify(ctx, raw)
}
