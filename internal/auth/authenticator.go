package auth

import (
	"context"

	"github.com/mmynk/telecomsupply/internal/models"
)

// Authenticator checks operator credentials.
// The Guard only depends on this interface, so the password flow can be
// swapped for a hosted identity provider without touching the services.
type Authenticator interface {
	// Register creates a new operator account with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user when the credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Lookup returns the account behind a verified session.
	Lookup(ctx context.Context, userID string) (*models.User, error)
}
