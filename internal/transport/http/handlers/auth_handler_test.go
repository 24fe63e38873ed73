package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
)

type stubAuthService struct {
	signInResult auth.AuthResult
	signInErr    error
	loggedOut    []string
	loggedOutAll []int64
}

func (s *stubAuthService) SignIn(_ context.Context, _, _ string) (auth.AuthResult, error) {
	return s.signInResult, s.signInErr
}

func (s *stubAuthService) Refresh(_ context.Context, _ string) (auth.AuthResult, error) {
	return s.signInResult, s.signInErr
}

func (s *stubAuthService) Logout(_ context.Context, refreshToken string) error {
	s.loggedOut = append(s.loggedOut, refreshToken)
	return nil
}

func (s *stubAuthService) LogoutAll(_ context.Context, userID int64) error {
	s.loggedOutAll = append(s.loggedOutAll, userID)
	return nil
}

func TestLoginSuccess(t *testing.T) {
	service := &stubAuthService{signInResult: auth.AuthResult{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       42,
		Email:        "client@example.com",
		FullName:     "Client One",
		Role:         "client",
	}}
	handler := NewAuthHandler(service, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"client@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "access" || resp.User.Role != "client" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLoginRejectsBadPayload(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, zap.NewNop())

	tests := map[string]string{
		"invalid json":  `{`,
		"bad email":     `{"email":"not-an-email","password":"pw"}`,
		"no password":   `{"email":"a@b.co","password":""}`,
		"unknown field": `{"email":"a@b.co","password":"pw","extra":1}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400", rec.Code)
			}
		})
	}
}

func TestLoginBadCredentials(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{signInErr: auth.ErrUnauthorized}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.co","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("got error code %q, want UNAUTHORIZED", resp.Error.Code)
	}
}

func TestLogout(t *testing.T) {
	service := &stubAuthService{}
	handler := NewAuthHandler(service, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(`{"refresh_token":"tok"}`))
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if len(service.loggedOut) != 1 || service.loggedOut[0] != "tok" {
		t.Fatalf("logout calls %v", service.loggedOut)
	}
}

func TestLogoutAllNeedsIdentity(t *testing.T) {
	service := &stubAuthService{}
	handler := NewAuthHandler(service, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout_all", nil)
	rec := httptest.NewRecorder()
	handler.LogoutAll(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous logout_all: got status %d, want 401", rec.Code)
	}

	identity := auth.Identity{UserID: 42, Role: enums.RoleClient}
	req = httptest.NewRequest(http.MethodPost, "/auth/logout_all", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	rec = httptest.NewRecorder()
	handler.LogoutAll(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if len(service.loggedOutAll) != 1 || service.loggedOutAll[0] != 42 {
		t.Fatalf("logout_all calls %v", service.loggedOutAll)
	}
}
