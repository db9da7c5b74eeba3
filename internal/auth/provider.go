// Package auth abstracts the external identity provider. The core only
// ever sees a verified identity; raw tokens stop at this boundary.
package auth

import "context"

// Identity is a verified caller. The UID is stable across the
// anonymous-to-authenticated transition.
type Identity struct {
	UID         string
	Email       string
	IsAnonymous bool
}

// Provider verifies a bearer token and yields the identity behind it.
type Provider interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
