package ports

import (
	"context"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

// ProvisionInput is the account creation payload. Password and SubjectID
// are individually optional but at least one must be present.
type ProvisionInput struct {
	Name      string
	Email     string
	Password  string
	SubjectID string
	Phone     string
	Address   domain.Address
}

// AuthService is the local credential issuer plus account provisioning.
// One instance per credential store (admins, users).
type AuthService interface {
	// Login authenticates email+password and mints a signed session
	// token. Unknown email and wrong password are indistinguishable to
	// the caller. A non-empty expectedSubject must additionally match
	// the stored external subject identifier.
	Login(ctx context.Context, email, password, expectedSubject string) (string, *domain.Identity, error)

	// VerifyToken validates a locally-signed token's signature and
	// expiry and returns its claims.
	VerifyToken(token string) (*domain.TokenClaims, error)

	// Provision creates a new record and, when an external subject is
	// bound, synchronizes the admin claim on the identity provider. If
	// the claim sync fails the just-written record is deleted before
	// the error is surfaced.
	Provision(ctx context.Context, in ProvisionInput) (*domain.Identity, error)
}
