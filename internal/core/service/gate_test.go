package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

func TestLocalTokenVerifier_VerdictAndIdempotence(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestAuthService(repo, newStubIdentityVerifier(), domain.RoleAdmin)

	mustSeed(t, repo, &domain.Identity{
		Name:   "Root Admin",
		Email:  "admin@example.com",
		Role:   domain.RoleAdmin,
		Active: true,
	}, "secret123")

	token, _, err := svc.Login(context.Background(), "admin@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	verifier := NewLocalTokenVerifier(svc, repo)

	first, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	second, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("second verify failed: %v", err)
	}
	if first.Identity.ID != second.Identity.ID || first.Role != second.Role {
		t.Fatalf("same token must yield the same verdict: %+v vs %+v", first, second)
	}
	if first.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", first.Role)
	}
}

func TestLocalTokenVerifier_UnregisteredSubject(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestAuthService(repo, newStubIdentityVerifier(), domain.RoleAdmin)

	seeded := mustSeed(t, repo, &domain.Identity{
		Name:   "Gone Soon",
		Email:  "gone@example.com",
		Role:   domain.RoleAdmin,
		Active: true,
	}, "pass")

	token, _, err := svc.Login(context.Background(), "gone@example.com", "pass", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Record deleted between issuance and gate check.
	if err := repo.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	verifier := NewLocalTokenVerifier(svc, repo)
	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestLocalTokenVerifier_RoleMismatchTreatedAsForged(t *testing.T) {
	adminRepo := newStubIdentityRepo()
	svc := newTestAuthService(adminRepo, newStubIdentityVerifier(), domain.RoleAdmin)

	seeded := mustSeed(t, adminRepo, &domain.Identity{
		Name:   "Demoted",
		Email:  "demoted@example.com",
		Role:   domain.RoleAdmin,
		Active: true,
	}, "pass")

	token, _, err := svc.Login(context.Background(), "demoted@example.com", "pass", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Role changed in the store after the token was minted.
	adminRepo.byID[seeded.ID].Role = domain.RoleCustomer

	verifier := NewLocalTokenVerifier(svc, adminRepo)
	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestBearerAssertionVerifier_InactiveAccount(t *testing.T) {
	repo := newStubIdentityRepo()
	ids := newStubIdentityVerifier()
	ids.assertions["good-assertion"] = &domain.Assertion{SubjectID: "fb_eve", Email: "eve@example.com"}

	mustSeed(t, repo, &domain.Identity{
		Name:      "Eve",
		Email:     "eve@example.com",
		SubjectID: "fb_eve",
		Role:      domain.RoleCustomer,
		Active:    false,
	}, "")

	verifier := NewBearerAssertionVerifier(ids, repo)
	if _, err := verifier.Verify(context.Background(), "good-assertion"); !errors.Is(err, domain.ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestBearerAssertionVerifier_InvalidAssertionSkipsStore(t *testing.T) {
	ids := newStubIdentityVerifier()

	lookups := 0
	repo := &countingIdentityRepo{stubIdentityRepo: newStubIdentityRepo(), lookups: &lookups}

	verifier := NewBearerAssertionVerifier(ids, repo)
	if _, err := verifier.Verify(context.Background(), "bogus"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if lookups != 0 {
		t.Fatalf("store must not be consulted for an unverified assertion, got %d lookups", lookups)
	}
}

func TestBearerAssertionVerifier_Success(t *testing.T) {
	repo := newStubIdentityRepo()
	ids := newStubIdentityVerifier()
	ids.assertions["good-assertion"] = &domain.Assertion{SubjectID: "fb_alice", Email: "alice@example.com"}

	seeded := mustSeed(t, repo, &domain.Identity{
		Name:      "Alice",
		Email:     "alice@example.com",
		SubjectID: "fb_alice",
		Role:      domain.RoleCustomer,
		Active:    true,
	}, "")

	verifier := NewBearerAssertionVerifier(ids, repo)
	principal, err := verifier.Verify(context.Background(), "good-assertion")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if principal.Identity.ID != seeded.ID {
		t.Fatalf("expected identity %s, got %s", seeded.ID, principal.Identity.ID)
	}
	if principal.Role != domain.RoleCustomer {
		t.Fatalf("expected customer role, got %s", principal.Role)
	}
}

func TestCredentialExtraction(t *testing.T) {
	local := NewLocalTokenVerifier(nil, nil)
	bearer := NewBearerAssertionVerifier(nil, nil)

	h := http.Header{}
	if got := local.Credential(h); got != "" {
		t.Fatalf("expected empty credential, got %q", got)
	}
	if got := bearer.Credential(h); got != "" {
		t.Fatalf("expected empty credential, got %q", got)
	}

	h.Set("X-Auth-Token", "local-token")
	h.Set("Authorization", "Bearer ext-token")
	if got := local.Credential(h); got != "local-token" {
		t.Fatalf("local extraction: got %q", got)
	}
	if got := bearer.Credential(h); got != "ext-token" {
		t.Fatalf("bearer extraction: got %q", got)
	}

	h.Set("Authorization", "Token ext-token")
	if got := bearer.Credential(h); got != "" {
		t.Fatalf("non-bearer scheme must be ignored, got %q", got)
	}
}

// countingIdentityRepo counts subject lookups on top of the stub.
type countingIdentityRepo struct {
	*stubIdentityRepo
	lookups *int
}

func (r *countingIdentityRepo) FindBySubject(ctx context.Context, subjectID string) (*domain.Identity, error) {
	*r.lookups++
	return r.stubIdentityRepo.FindBySubject(ctx, subjectID)
}
