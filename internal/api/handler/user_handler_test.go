package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

func TestUserHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubUserService{}
	h := NewUserHandler(svc)
	rec := httptest.NewRecorder()

	req := jsonRequest(http.MethodPost, "/api/users", `{"email":"bo@example.com","password":"secret1","name":"Bo"}`)
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var user ports.UserSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %q", user.Role)
	}
	if svc.created.Email != "bo@example.com" || svc.created.Password != "secret1" {
		t.Fatalf("unexpected input: %+v", svc.created)
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	tests := map[string]string{
		"missing email":  `{"password":"secret1"}`,
		"bad email":      `{"email":"bo","password":"secret1"}`,
		"short password": `{"email":"bo@example.com","password":"123"}`,
		"unknown role":   `{"email":"bo@example.com","password":"secret1","role":"owner"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			svc := &stubUserService{}
			h := NewUserHandler(svc)

			err := h.Create(e.NewContext(jsonRequest(http.MethodPost, "/api/users", body), httptest.NewRecorder()))
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if svc.created != nil {
				t.Fatalf("service must not be called")
			}
		})
	}
}

func TestUserHandler_UpdateRole(t *testing.T) {
	t.Run("valid role", func(t *testing.T) {
		e := newEcho()
		svc := &stubUserService{}
		h := NewUserHandler(svc)
		rec := httptest.NewRecorder()

		c := e.NewContext(jsonRequest(http.MethodPut, "/api/users/u2", `{"role":"admin"}`), rec)
		c.SetParamNames("id")
		c.SetParamValues("u2")

		if err := h.UpdateRole(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		var resp updateUserResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if !resp.Success || resp.UID != "u2" || resp.Role != domain.RoleAdmin {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if svc.role != domain.RoleAdmin {
			t.Fatalf("role not forwarded: %q", svc.role)
		}
	})

	for _, body := range []string{`{"role":"owner"}`, `{}`} {
		t.Run("rejects "+body, func(t *testing.T) {
			e := newEcho()
			svc := &stubUserService{}
			h := NewUserHandler(svc)

			err := h.UpdateRole(e.NewContext(jsonRequest(http.MethodPut, "/api/users/u2", body), httptest.NewRecorder()))
			if !errors.Is(err, domain.ErrInvalidRole) {
				t.Fatalf("expected ErrInvalidRole, got %v", err)
			}
			if svc.role != "" {
				t.Fatalf("service must not be called")
			}
		})
	}
}
