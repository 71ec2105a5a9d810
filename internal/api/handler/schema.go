package handler

import "github.com/savannaherds/site-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Comments ---

type commentRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Company  *string `json:"company"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
	Products *string `json:"products"`
	Message  *string `json:"message"`
	Approved *bool   `json:"approved"`
	// RemoveImage clears the attachment only for the literal string "true".
	RemoveImage any `json:"removeImage" swaggertype:"string"`
}

type commentActionResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// --- Site content ---

type siteContentRequest struct {
	HeroTitle    *string `json:"heroTitle"`
	HeroSubtitle *string `json:"heroSubtitle"`
	AboutText    *string `json:"aboutText"`
	ContactInfo  *string `json:"contactInfo"`
}

type siteContentWriteResponse struct {
	Success bool `json:"success"`
	*domain.SiteContent
}

// --- Auth ---

type loginRequest struct {
	Token string `json:"token" form:"token" validate:"required"`
}

type tokenRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	UID   string `json:"uid,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Error string `json:"error,omitempty"`
}

// --- Users ---

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type updateUserRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

type updateUserResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
	Role    string `json:"role"`
}

type deleteUserResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
}

// --- Contact ---

type contactRequest struct {
	Name    string `json:"name"    form:"name"    validate:"required"`
	Email   string `json:"email"   form:"email"   validate:"required,email"`
	Message string `json:"message" form:"message" validate:"required"`
	Subject string `json:"Subject" form:"Subject"`
}
