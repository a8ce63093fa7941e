package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// AuthService implements the local credential issuer and account
// provisioning against one credential store. The admin and customer
// stores each get their own instance; role decides the claim value
// synchronized to the external identity provider.
type AuthService struct {
	repo      ports.IdentityRepository
	ids       ports.IdentityVerifier
	role      domain.Role
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.IdentityRepository, ids ports.IdentityVerifier, role domain.Role, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		ids:       ids,
		role:      role,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Login authenticates an email+password pair and mints a session token.
// Unknown email, wrong password, and subject mismatch all collapse into
// ErrInvalidCredentials so the response shape never reveals which part
// failed; the real cause goes to the server log only.
func (s *AuthService) Login(ctx context.Context, email, password, expectedSubject string) (string, *domain.Identity, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			s.log.Debug().Str("email", email).Msg("login: email not found")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if identity.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		s.log.Debug().Str("email", email).Msg("login: password mismatch")
		return "", nil, domain.ErrInvalidCredentials
	}

	if expectedSubject != "" && expectedSubject != identity.SubjectID {
		s.log.Debug().Str("email", email).Msg("login: subject mismatch")
		return "", nil, domain.ErrInvalidCredentials
	}

	if !identity.Active {
		return "", nil, domain.ErrInactive
	}

	token, err := s.mintToken(identity)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}

	s.log.Info().Str("email", email).Str("role", string(identity.Role)).Msg("login succeeded")
	return token, identity, nil
}

// VerifyToken validates signature and expiry. Tokens are stateless; no
// store lookup happens here — that is the gate's job, and only after
// this call succeeds.
func (s *AuthService) VerifyToken(token string) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.TokenClaims{
		SubjectID: sub,
		Name:      name,
		Email:     email,
		Role:      domain.Role(role),
	}, nil
}

// Provision creates a new credential record. Ordering is deliberate:
// duplicate check, store write, then external claim sync. A claim sync
// failure triggers a compensating delete of the record written in step
// two — the local store and the provider's claim set must never disagree
// about whether an account exists.
func (s *AuthService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.Identity, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.ErrProvisionInvalid
	}
	if in.Password == "" && in.SubjectID == "" {
		return nil, domain.ErrProvisionInvalid
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotRegistered) {
		return nil, err
	}
	if in.SubjectID != "" {
		if _, err := s.repo.FindBySubject(ctx, in.SubjectID); err == nil {
			return nil, domain.ErrAlreadyExists
		} else if !errors.Is(err, domain.ErrNotRegistered) {
			return nil, err
		}
	}

	var hash string
	if in.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	created, err := s.repo.Create(ctx, &domain.Identity{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		SubjectID:    in.SubjectID,
		Role:         s.role,
		Active:       true,
		Phone:        in.Phone,
		Address:      in.Address,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if in.SubjectID != "" {
		if err := s.ids.SetClaim(ctx, in.SubjectID, "admin", s.role == domain.RoleAdmin); err != nil {
			s.log.Error().Err(err).Str("email", in.Email).Str("subject", in.SubjectID).
				Msg("claim sync failed, rolling back record")
			if delErr := s.repo.Delete(ctx, created.ID); delErr != nil {
				s.log.Error().Err(delErr).Str("id", created.ID).Msg("rollback delete failed")
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrExternalClaim, err)
		}
	}

	s.log.Info().Str("email", in.Email).Str("role", string(s.role)).Msg("account provisioned")
	return created, nil
}

func (s *AuthService) mintToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"name":  identity.Name,
		"email": identity.Email,
		"role":  string(identity.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
