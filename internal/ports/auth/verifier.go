package auth

import "context"

// AuthVerifier verifies a token and returns claims or an error.
// Identity verification itself lives outside this service.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
