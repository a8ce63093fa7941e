package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

type stubVerifier struct {
	assertion *domain.Assertion
	err       error
}

func (v *stubVerifier) VerifyAssertion(context.Context, string) (*domain.Assertion, error) {
	return v.assertion, v.err
}

func (v *stubVerifier) SetClaim(context.Context, string, string, any) error { return nil }

func TestUserHandler_Register_BindsBearerSubject(t *testing.T) {
	var gotInput ports.ProvisionInput
	svc := &stubAuthService{
		provisionFn: func(_ context.Context, in ports.ProvisionInput) (*domain.Identity, error) {
			gotInput = in
			return &domain.Identity{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleCustomer}, nil
		},
	}
	verifier := &stubVerifier{assertion: &domain.Assertion{SubjectID: "fb-sub-9"}}
	h := NewUserHandler(svc, &countingRepo{}, verifier, &stubThrottle{allowed: true}, zerolog.Nop())

	c, rec := newJSONContext(t, http.MethodPost, "/users/register",
		`{"name":"Dana","email":"dana@example.com"}`)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer external-token")

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gotInput.SubjectID != "fb-sub-9" {
		t.Fatalf("expected subject binding, got %+v", gotInput)
	}
}

func TestUserHandler_Register_RejectsBadBearer(t *testing.T) {
	svc := &stubAuthService{
		provisionFn: func(context.Context, ports.ProvisionInput) (*domain.Identity, error) {
			t.Fatal("provision must not run for a rejected assertion")
			return nil, nil
		},
	}
	verifier := &stubVerifier{err: errors.New("id token expired")}
	h := NewUserHandler(svc, &countingRepo{}, verifier, &stubThrottle{allowed: true}, zerolog.Nop())

	c, _ := newJSONContext(t, http.MethodPost, "/users/register",
		`{"name":"Dana","email":"dana@example.com"}`)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer forged")

	if err := h.Register(c); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestUserHandler_Register_CredentiallessSurfacesProvisionError(t *testing.T) {
	svc := &stubAuthService{
		provisionFn: func(_ context.Context, in ports.ProvisionInput) (*domain.Identity, error) {
			if in.Password == "" && in.SubjectID == "" {
				return nil, domain.ErrProvisionInvalid
			}
			t.Fatalf("expected credential-less input, got %+v", in)
			return nil, nil
		},
	}
	h := NewUserHandler(svc, &countingRepo{}, &stubVerifier{}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, _ := newJSONContext(t, http.MethodPost, "/users/register",
		`{"name":"Dana","email":"dana@example.com"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrProvisionInvalid) {
		t.Fatalf("expected ErrProvisionInvalid, got %v", err)
	}
}

func TestUserHandler_Login_PassesExpectedSubject(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, email, _, expectedSubject string) (string, *domain.Identity, error) {
			if expectedSubject != "fb-sub-9" {
				t.Fatalf("expected subject cross-check, got %q", expectedSubject)
			}
			return "token123", &domain.Identity{Email: email, Role: domain.RoleCustomer}, nil
		},
	}
	verifier := &stubVerifier{assertion: &domain.Assertion{SubjectID: "fb-sub-9"}}
	h := NewUserHandler(svc, &countingRepo{}, verifier, &stubThrottle{allowed: true}, zerolog.Nop())

	c, rec := newJSONContext(t, http.MethodPost, "/users/login",
		`{"email":"dana@example.com","password":"hunter22"}`)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer external-token")

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Me_RequiresPrincipal(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &countingRepo{}, &stubVerifier{}, &stubThrottle{allowed: true}, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserHandler_UpdateProfile_OnlyTouchesSentFields(t *testing.T) {
	repo := &profileRepo{countingRepo: countingRepo{}}
	h := NewUserHandler(&stubAuthService{}, repo, &stubVerifier{}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, rec := newJSONContext(t, http.MethodPut, "/users/profile", `{"phone":"555-0100"}`)
	c.Set("principal", &domain.Principal{
		Identity: &domain.Identity{ID: "u1", Role: domain.RoleCustomer},
		Role:     domain.RoleCustomer,
	})

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.gotUpdate.Name != nil || repo.gotUpdate.Address != nil {
		t.Fatalf("unsent fields must stay nil: %+v", repo.gotUpdate)
	}
	if repo.gotUpdate.Phone == nil || *repo.gotUpdate.Phone != "555-0100" {
		t.Fatalf("expected phone update, got %+v", repo.gotUpdate)
	}
}

type profileRepo struct {
	countingRepo
	gotUpdate ports.ProfileUpdate
}

func (r *profileRepo) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate) (*domain.Identity, error) {
	r.gotUpdate = update
	return &domain.Identity{ID: id, Role: domain.RoleCustomer}, nil
}

func TestBearerToken_Extraction(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"absent", "", ""},
		{"bearer", "Bearer abc.def", "abc.def"},
		{"case insensitive", "bearer abc", "abc"},
		{"other scheme", "Basic dXNlcg==", ""},
		{"no token", "Bearer", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.header != "" {
				h.Set(echo.HeaderAuthorization, tc.header)
			}
			if got := bearerToken(h); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
