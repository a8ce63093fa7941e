package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// TokenVerifier is the slice of AuthService the local gate path needs.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.TokenClaims, error)
}

// LocalTokenVerifier resolves locally-signed session tokens carried in
// the X-Auth-Token header. The store lookup runs strictly after the
// signature check: an unverified token never drives a database read.
type LocalTokenVerifier struct {
	tokens TokenVerifier
	repo   ports.IdentityRepository
}

func NewLocalTokenVerifier(tokens TokenVerifier, repo ports.IdentityRepository) *LocalTokenVerifier {
	return &LocalTokenVerifier{tokens: tokens, repo: repo}
}

func (v *LocalTokenVerifier) Scheme() string { return "local_token" }

func (v *LocalTokenVerifier) Credential(h http.Header) string {
	return h.Get("X-Auth-Token")
}

func (v *LocalTokenVerifier) Verify(ctx context.Context, credential string) (*domain.Principal, error) {
	claims, err := v.tokens.VerifyToken(credential)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	identity, err := v.repo.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return nil, domain.ErrNotRegistered
		}
		return nil, err
	}
	if !identity.Active {
		return nil, domain.ErrInactive
	}
	// The store is the source of truth for the role; a token claiming a
	// different role than the record is treated as forged.
	if claims.Role != identity.Role {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Principal{Identity: identity, Role: identity.Role}, nil
}

// BearerAssertionVerifier resolves externally-issued assertions carried
// in the Authorization header. Verification is delegated to the identity
// provider; the credential store is consulted afterwards to map the
// verified subject onto a registered account.
type BearerAssertionVerifier struct {
	ids  ports.IdentityVerifier
	repo ports.IdentityRepository
}

func NewBearerAssertionVerifier(ids ports.IdentityVerifier, repo ports.IdentityRepository) *BearerAssertionVerifier {
	return &BearerAssertionVerifier{ids: ids, repo: repo}
}

func (v *BearerAssertionVerifier) Scheme() string { return "bearer_assertion" }

func (v *BearerAssertionVerifier) Credential(h http.Header) string {
	parts := strings.SplitN(h.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func (v *BearerAssertionVerifier) Verify(ctx context.Context, credential string) (*domain.Principal, error) {
	assertion, err := v.ids.VerifyAssertion(ctx, credential)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	identity, err := v.repo.FindBySubject(ctx, assertion.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return nil, domain.ErrNotRegistered
		}
		return nil, err
	}
	if !identity.Active {
		return nil, domain.ErrInactive
	}

	return &domain.Principal{Identity: identity, Role: identity.Role}, nil
}
