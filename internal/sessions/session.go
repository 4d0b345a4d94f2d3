package sessions

import "time"

// Session is a persistent refresh session. The refresh token is an opaque
// random value handed to the client; the sub ties it back to the provider
// identity.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	Sub          string    `bson:"sub" json:"sub"`
	// ProviderToken is the upstream auth provider's access token, kept so
	// logout can revoke the provider session too. Sessions never appear in
	// API responses, so the token may live in the storage encoding.
	ProviderToken string    `bson:"providerToken,omitempty" json:"providerToken,omitempty"`
	ExpiresAt     time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
