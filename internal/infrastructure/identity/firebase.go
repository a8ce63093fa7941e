// Package identity adapts the Firebase identity provider to the
// IdentityVerifier port.
package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

// FirebaseVerifier validates bearer assertions against Firebase and pushes
// custom claims back to it. Token verification errors are returned raw;
// the gate is responsible for mapping them to a rejection.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier initialises the Firebase app. CredentialsFile may be
// empty, in which case the SDK falls back to application default
// credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) VerifyAssertion(ctx context.Context, bearer string) (*domain.Assertion, error) {
	token, err := v.client.VerifyIDToken(ctx, bearer)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	return &domain.Assertion{
		SubjectID: token.UID,
		Email:     email,
		Claims:    token.Claims,
	}, nil
}

func (v *FirebaseVerifier) SetClaim(ctx context.Context, subjectID, name string, value any) error {
	user, err := v.client.GetUser(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("get user %s: %w", subjectID, err)
	}

	claims := user.CustomClaims
	if claims == nil {
		claims = map[string]any{}
	}
	claims[name] = value

	if err := v.client.SetCustomUserClaims(ctx, subjectID, claims); err != nil {
		return fmt.Errorf("set custom claims for %s: %w", subjectID, err)
	}
	return nil
}
