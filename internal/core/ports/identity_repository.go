package ports

import (
	"context"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

// IdentityRepository is the credential store access contract. Two
// instances exist at runtime, one per backing collection (admins,
// users); both expose the same unified identity shape.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindBySubject(ctx context.Context, subjectID string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	// Delete removes a record by local id. Used only by the provisioning
	// rollback path.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*domain.Identity, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.Identity, error)
}

// ProfileUpdate carries the user-editable profile fields. Nil pointers
// leave the stored value untouched.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *domain.Address
}
