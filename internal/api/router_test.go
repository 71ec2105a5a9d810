package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	switch token {
	case "admin-token":
		return &domain.Principal{UID: "a1", Role: domain.RoleAdmin}, nil
	case "user-token":
		return &domain.Principal{UID: "u1", Role: domain.RoleUser}, nil
	case "orphan-token":
		return nil, domain.ErrForbidden
	}
	return nil, domain.ErrUnauthorized
}

func (s stubAuth) Login(ctx context.Context, token string) (*domain.Principal, error) {
	p, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

type stubSite struct {
	content domain.SiteContent
	writes  int
}

func (s *stubSite) Read(context.Context) (*domain.SiteContent, error) {
	c := s.content
	return &c, nil
}

func (s *stubSite) Write(_ context.Context, p ports.SiteContentPatch, by string) (*domain.SiteContent, error) {
	s.writes++
	if p.HeroTitle != nil {
		s.content.HeroTitle = *p.HeroTitle
	}
	s.content.UpdatedBy = by
	c := s.content
	return &c, nil
}

type stubComments struct {
	ports.CommentService
	approved []string
}

func (s *stubComments) Approve(_ context.Context, id string) error {
	if id == "missing" {
		return domain.ErrCommentNotFound
	}
	s.approved = append(s.approved, id)
	return nil
}

func newTestRouter(site *stubSite, comments *stubComments) http.Handler {
	return NewRouter(Dependencies{
		Logger:   zerolog.Nop(),
		Auth:     stubAuth{},
		Site:     site,
		Comments: comments,
	}, Options{MaxUploadBytes: 5 << 20, SuccessRedirect: "/success.html"})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SiteContentWriteRequiresAdmin(t *testing.T) {
	site := &stubSite{content: *domain.DefaultSiteContent()}
	router := newTestRouter(site, &stubComments{})
	body := `{"heroTitle":"Hacked"}`

	tests := []struct {
		token string
		want  int
	}{
		{"", http.StatusUnauthorized},
		{"garbage", http.StatusUnauthorized},
		{"orphan-token", http.StatusForbidden},
		{"user-token", http.StatusForbidden},
	}
	for _, tt := range tests {
		rec := do(t, router, http.MethodPut, "/api/site/content", tt.token, body)
		if rec.Code != tt.want {
			t.Fatalf("token %q: expected %d, got %d (%s)", tt.token, tt.want, rec.Code, rec.Body.String())
		}
	}

	if site.writes != 0 {
		t.Fatalf("content must not be written by non-admins")
	}
	rec := do(t, router, http.MethodGet, "/api/site/content", "", "")
	var got domain.SiteContent
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.HeroTitle != domain.DefaultSiteContent().HeroTitle {
		t.Fatalf("content changed: %+v", got)
	}
}

func TestRouter_SiteContentWriteAsAdmin(t *testing.T) {
	site := &stubSite{content: *domain.DefaultSiteContent()}
	router := newTestRouter(site, &stubComments{})

	rec := do(t, router, http.MethodPut, "/api/site/content", "admin-token", `{"heroTitle":"Fresh"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["heroTitle"] != "Fresh" || resp["updatedBy"] != "a1" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if resp["aboutText"] != domain.DefaultSiteContent().AboutText {
		t.Fatalf("absent fields must keep their value: %v", resp)
	}
}

func TestRouter_ApproveComment(t *testing.T) {
	comments := &stubComments{}
	router := newTestRouter(&stubSite{}, comments)

	if rec := do(t, router, http.MethodPut, "/api/comments/c1/approve", "user-token", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
	if len(comments.approved) != 0 {
		t.Fatalf("non-admin must not approve")
	}

	rec := do(t, router, http.MethodPut, "/api/comments/c1/approve", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) || !strings.Contains(rec.Body.String(), `"id":"c1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	if rec := do(t, router, http.MethodPut, "/api/comments/missing/approve", "admin-token", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_UsersRequireAdmin(t *testing.T) {
	router := newTestRouter(&stubSite{}, &stubComments{})

	if rec := do(t, router, http.MethodGet, "/api/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/users", "user-token", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(&stubSite{}, &stubComments{})

	if rec := do(t, router, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with no dependencies, got %d", rec.Code)
	}
}
