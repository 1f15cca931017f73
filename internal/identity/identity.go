// Package identity talks to the external identity provider. It returns
// profile facts only; all account decisions live in internal/account.
package identity

import "context"

// Profile is the canonical external user profile. LastSignInAt is kept as the
// provider's raw string; parsing happens during reconciliation where a failure
// can be tolerated.
type Profile struct {
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	EmailVerified     bool   `json:"email_verified"`
	ProfilePictureURL string `json:"profile_picture_url"`
	LastSignInAt      string `json:"last_sign_in_at"`
}

type Resolver interface {
	GetUser(ctx context.Context, externalUserID string) (*Profile, error)
}
