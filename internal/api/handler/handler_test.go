package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/api/middleware"
	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(file.data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func withPrincipal(c echo.Context, p *domain.Principal) {
	// Run the real middleware so the context key stays private to it.
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer test")
	_ = middleware.Authenticate(fixedAuth{p})(func(echo.Context) error { return nil })(c)
}

type fixedAuth struct{ p *domain.Principal }

func (f fixedAuth) Authenticate(context.Context, string) (*domain.Principal, error) { return f.p, nil }

// --- stub services ---

type stubCommentService struct {
	ports.CommentService
	created    *ports.CreateCommentInput
	updated    *ports.UpdateCommentInput
	imageBytes []byte
	list       []*domain.Comment
	err        error
}

func (s *stubCommentService) List(context.Context) ([]*domain.Comment, error) {
	return s.list, s.err
}

func (s *stubCommentService) readImage(up *domain.Upload) {
	if up != nil {
		s.imageBytes, _ = io.ReadAll(up.Body)
	}
}

func (s *stubCommentService) Create(_ context.Context, in ports.CreateCommentInput) (*domain.Comment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &in
	s.readImage(in.Image)
	c := &domain.Comment{ID: "c1", FullName: in.FullName, Email: in.Email, Message: in.Message}
	if in.Image != nil {
		u := "/images/comments/" + in.Image.Filename
		c.ImageURL = &u
	}
	return c, nil
}

func (s *stubCommentService) Update(_ context.Context, id string, in ports.UpdateCommentInput) (*domain.Comment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = &in
	s.readImage(in.Image)
	return &domain.Comment{ID: id}, nil
}

type stubAuthService struct {
	principals map[string]*domain.Principal
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	if token == "orphan" {
		return nil, domain.ErrForbidden
	}
	return nil, domain.ErrUnauthorized
}

func (s *stubAuthService) Login(ctx context.Context, token string) (*domain.Principal, error) {
	p, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

type stubIssuer struct{}

func (stubIssuer) IssueToken(_ context.Context, email, password string) (string, error) {
	if email == "ana@example.com" && password == "pass123" {
		return "signed-token", nil
	}
	return "", domain.ErrInvalidCredentials
}

type stubContactService struct {
	got []domain.ContactMessage
	err error
}

func (s *stubContactService) Submit(_ context.Context, msg domain.ContactMessage) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, msg)
	return nil
}

type stubUserService struct {
	ports.UserService
	created *ports.CreateUserInput
	role    string
}

func (s *stubUserService) Create(_ context.Context, in ports.CreateUserInput) (*ports.UserSummary, error) {
	s.created = &in
	return &ports.UserSummary{UID: "u1", Email: in.Email, Name: in.Name, Role: domain.FirstNonEmpty(in.Role, domain.RoleUser)}, nil
}

func (s *stubUserService) UpdateRole(_ context.Context, _ string, role string) error {
	s.role = role
	return nil
}
