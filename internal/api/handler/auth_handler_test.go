package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn     func(ctx context.Context, email, password, expectedSubject string) (string, *domain.Identity, error)
	provisionFn func(ctx context.Context, in ports.ProvisionInput) (*domain.Identity, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, expectedSubject string) (string, *domain.Identity, error) {
	return s.loginFn(ctx, email, password, expectedSubject)
}

func (s *stubAuthService) VerifyToken(string) (*domain.TokenClaims, error) {
	return nil, domain.ErrTokenInvalid
}

func (s *stubAuthService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.Identity, error) {
	return s.provisionFn(ctx, in)
}

type stubThrottle struct {
	allowed bool
	err     error
	resets  []string
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) { return t.allowed, t.err }
func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets = append(t.resets, email)
	return nil
}

// countingRepo satisfies ports.IdentityRepository for handlers that only
// need Count.
type countingRepo struct {
	count int64
}

func (r *countingRepo) FindByEmail(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrNotRegistered
}
func (r *countingRepo) FindBySubject(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrNotRegistered
}
func (r *countingRepo) FindByID(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrNotRegistered
}
func (r *countingRepo) Create(_ context.Context, id *domain.Identity) (*domain.Identity, error) {
	return id, nil
}
func (r *countingRepo) Delete(context.Context, string) error  { return nil }
func (r *countingRepo) Count(context.Context) (int64, error)  { return r.count, nil }
func (r *countingRepo) List(context.Context) ([]*domain.Identity, error) {
	return nil, nil
}
func (r *countingRepo) SetActive(context.Context, string, bool) error { return nil }
func (r *countingRepo) UpdateProfile(context.Context, string, ports.ProfileUpdate) (*domain.Identity, error) {
	return nil, domain.ErrNotRegistered
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, email, password, expectedSubject string) (string, *domain.Identity, error) {
			if email != "root@store.test" || password != "hunter22" || expectedSubject != "" {
				t.Fatalf("unexpected args: %s %s %q", email, password, expectedSubject)
			}
			return "token123", &domain.Identity{ID: "a1", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	throttle := &stubThrottle{allowed: true}
	h := NewAuthHandler(svc, &countingRepo{}, throttle, zerolog.Nop())

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"root@store.test","password":"hunter22"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
	if len(throttle.resets) != 1 || throttle.resets[0] != "root@store.test" {
		t.Fatalf("expected throttle reset for the email, got %v", throttle.resets)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(context.Context, string, string, string) (string, *domain.Identity, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc, &countingRepo{}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"root@store.test","password":"wrong-pass"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(context.Context, string, string, string) (string, *domain.Identity, error) {
			t.Fatal("login should not reach the service when throttled")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(svc, &countingRepo{}, &stubThrottle{allowed: false}, zerolog.Nop())

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"root@store.test","password":"hunter22"}`)
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
}

func TestAuthHandler_Login_ThrottleOutageFailsOpen(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(context.Context, string, string, string) (string, *domain.Identity, error) {
			return "token123", &domain.Identity{Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(svc, &countingRepo{}, &stubThrottle{err: errors.New("redis down")}, zerolog.Nop())

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"root@store.test","password":"hunter22"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite throttle outage, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_RejectsBadPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &countingRepo{}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":""}`)
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_CreateFirstAdmin_Success(t *testing.T) {
	svc := &stubAuthService{
		provisionFn: func(_ context.Context, in ports.ProvisionInput) (*domain.Identity, error) {
			if in.Email != "root@store.test" || in.Password == "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Identity{ID: "a1", Name: in.Name, Email: in.Email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(svc, &countingRepo{count: 0}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, rec := newJSONContext(t, http.MethodPost, "/setup/create-admin",
		`{"name":"Root","email":"root@store.test","password":"long-enough"}`)
	if err := h.CreateFirstAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response must not leak credential material: %s", rec.Body.String())
	}
}

func TestAuthHandler_CreateFirstAdmin_RefusesWhenAdminExists(t *testing.T) {
	svc := &stubAuthService{
		provisionFn: func(context.Context, ports.ProvisionInput) (*domain.Identity, error) {
			t.Fatal("provision must not run once an admin exists")
			return nil, nil
		},
	}
	h := NewAuthHandler(svc, &countingRepo{count: 1}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, _ := newJSONContext(t, http.MethodPost, "/setup/create-admin",
		`{"name":"Root","email":"root@store.test","password":"long-enough"}`)
	if err := h.CreateFirstAdmin(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
