package security

import "time"

// NewTestTokenProvider returns a TokenProvider with a fixed test secret and no
// previous secret. For use in tests only.
func NewTestTokenProvider() *TokenProvider {
	return NewTokenProvider([]byte("0123456789abcdef0123456789abcdef"), nil, "ems-auth", "ems-api")
}

// TestAccessTTL and TestRefreshTTL are convenient token lifetimes for tests.
const (
	TestAccessTTL  = 45 * time.Minute
	TestRefreshTTL = 7 * 24 * time.Hour
)
