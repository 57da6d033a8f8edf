// Package auth verifies bearer tokens issued by the identity provider. The
// API never issues or stores credentials; it only learns the caller's email.
package auth

import (
	"context"
	"errors"
)

var ErrNoEmail = errors.New("token has no email claim")

// Verifier checks an ID token and returns the verified email it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
