package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

type stubSiteService struct {
	patch  ports.SiteContentPatch
	writer string
}

func (s *stubSiteService) Read(context.Context) (*domain.SiteContent, error) {
	return domain.DefaultSiteContent(), nil
}

func (s *stubSiteService) Write(_ context.Context, patch ports.SiteContentPatch, writerUID string) (*domain.SiteContent, error) {
	s.patch, s.writer = patch, writerUID
	content := domain.DefaultSiteContent()
	if patch.HeroTitle != nil {
		content.HeroTitle = *patch.HeroTitle
	}
	content.UpdatedBy = writerUID
	return content, nil
}

func TestSiteHandler_GetContent(t *testing.T) {
	e := newEcho()
	h := NewSiteHandler(&stubSiteService{})
	rec := httptest.NewRecorder()

	if err := h.GetContent(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/site/content", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var content domain.SiteContent
	if err := json.Unmarshal(rec.Body.Bytes(), &content); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if content.HeroTitle != domain.DefaultSiteContent().HeroTitle {
		t.Fatalf("unexpected content: %+v", content)
	}
}

func TestSiteHandler_UpdateContent(t *testing.T) {
	e := newEcho()
	svc := &stubSiteService{}
	h := NewSiteHandler(svc)
	rec := httptest.NewRecorder()

	c := e.NewContext(jsonRequest(http.MethodPut, "/api/site/content", `{"heroTitle":"Hello"}`), rec)
	withPrincipal(c, &domain.Principal{UID: "admin-1", Role: domain.RoleAdmin})

	if err := h.UpdateContent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.writer != "admin-1" {
		t.Fatalf("expected writer admin-1, got %q", svc.writer)
	}
	if svc.patch.HeroTitle == nil || *svc.patch.HeroTitle != "Hello" || svc.patch.AboutText != nil {
		t.Fatalf("unexpected patch: %+v", svc.patch)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["success"] != true || resp["heroTitle"] != "Hello" || resp["updatedBy"] != "admin-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSiteHandler_UpdateContent_RequiresPrincipal(t *testing.T) {
	e := newEcho()
	svc := &stubSiteService{}
	h := NewSiteHandler(svc)

	err := h.UpdateContent(e.NewContext(jsonRequest(http.MethodPut, "/api/site/content", `{"heroTitle":"Hello"}`), httptest.NewRecorder()))
	if err == nil {
		t.Fatalf("expected an error without a principal")
	}
	if svc.writer != "" {
		t.Fatalf("service must not be called")
	}
}
