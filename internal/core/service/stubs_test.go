package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

var errBoom = errors.New("boom")

// --- comments ---

type stubCommentRepo struct {
	comments  map[string]*domain.Comment
	seq       int
	createErr error
	updateErr error
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[string]*domain.Comment)}
}

func cloneComment(c *domain.Comment) *domain.Comment {
	clone := *c
	if c.ImageURL != nil {
		u := *c.ImageURL
		clone.ImageURL = &u
	}
	return &clone
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	stored := cloneComment(c)
	stored.ID = fmt.Sprintf("c%d", r.seq)
	r.comments[stored.ID] = stored
	return cloneComment(stored), nil
}

func (r *stubCommentRepo) List(context.Context) ([]*domain.Comment, error) {
	out := make([]*domain.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		out = append(out, cloneComment(c))
	}
	// Map order: the service must not rely on the repository sorting.
	return out, nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return cloneComment(c), nil
}

func (r *stubCommentRepo) Approve(_ context.Context, id string) error {
	c, ok := r.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	c.Approved = true
	return nil
}

func (r *stubCommentRepo) Update(_ context.Context, id string, p ports.CommentPatch) (*domain.Comment, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	for dst, src := range map[*string]*string{
		&c.FullName: p.FullName, &c.Email: p.Email, &c.Company: p.Company, &c.Phone: p.Phone,
		&c.Website: p.Website, &c.Products: p.Products, &c.Message: p.Message,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if p.Approved != nil {
		c.Approved = *p.Approved
	}
	if p.SetImage {
		c.ImageURL = p.ImageURL
	}
	at := p.UpdatedAt
	c.UpdatedAt = &at
	return cloneComment(c), nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

type stubStore struct {
	stored    []string
	deleted   []string
	seq       int
	storeErr  error
	deleteErr error
}

func (s *stubStore) Backend() string { return "stub" }

func (s *stubStore) Store(_ context.Context, up domain.Upload) (string, error) {
	if s.storeErr != nil {
		return "", s.storeErr
	}
	s.seq++
	url := fmt.Sprintf("/images/comments/%d-%s", s.seq, up.Filename)
	s.stored = append(s.stored, url)
	return url, nil
}

func (s *stubStore) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return s.deleteErr
}

func image(name string) *domain.Upload {
	return &domain.Upload{Filename: name, ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

func strPtr(s string) *string { return &s }

// --- site content ---

type stubSiteRepo struct {
	content *domain.SiteContent
	err     error
}

func (r *stubSiteRepo) Get(context.Context) (*domain.SiteContent, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.content == nil {
		return nil, domain.ErrSiteContentNotFound
	}
	c := *r.content
	return &c, nil
}

func (r *stubSiteRepo) Upsert(_ context.Context, p ports.SiteContentPatch, by string, at time.Time) (*domain.SiteContent, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.content == nil {
		r.content = &domain.SiteContent{}
	}
	for dst, src := range map[*string]*string{
		&r.content.HeroTitle: p.HeroTitle, &r.content.HeroSubtitle: p.HeroSubtitle,
		&r.content.AboutText: p.AboutText, &r.content.ContactInfo: p.ContactInfo,
	} {
		if src != nil {
			*dst = *src
		}
	}
	r.content.UpdatedBy = by
	r.content.UpdatedAt = &at
	c := *r.content
	return &c, nil
}

// --- identity ---

type stubCredentialRepo struct {
	accounts map[string]*domain.Account // by uid
	seq      int
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubCredentialRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	stored := *a
	stored.UID = fmt.Sprintf("u%d", r.seq)
	r.accounts[stored.UID] = &stored
	out := stored
	return &out, nil
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubCredentialRepo) List(context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.accounts))
	for i := 1; i <= r.seq; i++ {
		if a, ok := r.accounts[fmt.Sprintf("u%d", i)]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubCredentialRepo) Delete(_ context.Context, uid string) error {
	if _, ok := r.accounts[uid]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.accounts, uid)
	return nil
}

type stubIdentityProvider struct {
	claims map[string]*domain.TokenClaims // token -> claims
	*stubCredentialRepo
}

func newStubIdentityProvider() *stubIdentityProvider {
	return &stubIdentityProvider{
		claims:             make(map[string]*domain.TokenClaims),
		stubCredentialRepo: newStubCredentialRepo(),
	}
}

func (p *stubIdentityProvider) VerifyToken(_ context.Context, raw string) (*domain.TokenClaims, error) {
	c, ok := p.claims[raw]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return c, nil
}

func (p *stubIdentityProvider) CreateAccount(ctx context.Context, email, _, displayName string) (*domain.Account, error) {
	return p.stubCredentialRepo.Create(ctx, &domain.Account{Email: email, DisplayName: displayName, CreatedAt: time.Now()})
}

func (p *stubIdentityProvider) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return p.stubCredentialRepo.List(ctx)
}

func (p *stubIdentityProvider) DeleteAccount(ctx context.Context, uid string) error {
	return p.stubCredentialRepo.Delete(ctx, uid)
}

type stubRoleRepo struct {
	records   map[string]*domain.RoleRecord
	createErr error
	findErr   error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{records: make(map[string]*domain.RoleRecord)}
}

func (r *stubRoleRepo) FindByUID(_ context.Context, uid string) (*domain.RoleRecord, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	rec, ok := r.records[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *rec
	return &out, nil
}

func (r *stubRoleRepo) HasRole(_ context.Context, role string) (bool, error) {
	if r.findErr != nil {
		return false, r.findErr
	}
	for _, rec := range r.records {
		if rec.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRoleRepo) Create(_ context.Context, rec *domain.RoleRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	stored := *rec
	r.records[rec.UID] = &stored
	return nil
}

func (r *stubRoleRepo) UpdateRole(_ context.Context, uid, role string) error {
	rec, ok := r.records[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.Role = role
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, uid string) error {
	delete(r.records, uid)
	return nil
}
