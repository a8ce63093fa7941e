package domain

import (
	"errors"
	"time"
)

// Role classifies an authenticated actor. The backing store keeps admins
// and customers in separate collections, but the rest of the system only
// ever sees one identity shape with one role value.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Gate rejection taxonomy. Every authentication or authorization failure
// in the system resolves to exactly one of these sentinels.
var (
	ErrUnauthenticated    = errors.New("no credential presented")
	ErrTokenInvalid       = errors.New("credential invalid")
	ErrNotRegistered      = errors.New("identity not registered")
	ErrInactive           = errors.New("account deactivated")
	ErrForbidden          = errors.New("insufficient role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("account already exists")
	ErrProvisionInvalid   = errors.New("invalid provisioning request")
	ErrExternalClaim      = errors.New("external claim update failed")
)

// Address is a customer's postal address.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// Identity is a credential store record: an administrator or a customer.
// A record is reachable through email+password, through the external
// subject identifier, or both; PasswordHash and SubjectID are therefore
// each optional, but never both empty.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SubjectID    string    `json:"subject_id,omitempty"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	Phone        string    `json:"phone,omitempty"`
	Address      Address   `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenClaims is the payload carried by a locally-signed session token.
type TokenClaims struct {
	SubjectID string
	Name      string
	Email     string
	Role      Role
}

// Assertion is the verified content of an externally-issued bearer token.
// The raw token itself is opaque; only the subject and claims matter here.
type Assertion struct {
	SubjectID string
	Email     string
	Claims    map[string]any
}

// Principal is the gate's success verdict for one request: the resolved
// identity plus its effective role. Built per request, never persisted.
type Principal struct {
	Identity *Identity
	Role     Role
}

// AuthDecision is the structured record of one gate evaluation, emitted
// for every protected request regardless of outcome.
type AuthDecision struct {
	Scheme    string    `json:"scheme" bson:"scheme"`
	SubjectID string    `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Role      Role      `json:"role,omitempty" bson:"role,omitempty"`
	Outcome   string    `json:"outcome" bson:"outcome"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty"`
	Path      string    `json:"path" bson:"path"`
	At        time.Time `json:"at" bson:"at"`
}
