// Package auth covers member identity: credential verification and the
// session tokens the HTTP layer checks on every request.
package auth

import (
	"context"

	"github.com/mkamau/chamapool/internal/models"
)

// Authenticator abstracts the credential scheme so the service layer never
// sees passwords, tokens, or whatever replaces them.
type Authenticator interface {
	// Register creates an account from an email and a credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the account.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials the scheme considers too weak.
	ValidateCredential(credential string) error
}
