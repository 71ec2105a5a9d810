package domain

import (
	"errors"
	"time"
)

// SiteContentKey identifies the singleton homepage document.
const SiteContentKey = "homepage"

var ErrSiteContentNotFound = errors.New("site content not found")

// SiteContent holds the editable homepage copy.
type SiteContent struct {
	HeroTitle    string     `json:"heroTitle" bson:"hero_title"`
	HeroSubtitle string     `json:"heroSubtitle" bson:"hero_subtitle"`
	AboutText    string     `json:"aboutText" bson:"about_text"`
	ContactInfo  string     `json:"contactInfo" bson:"contact_info"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
	UpdatedBy    string     `json:"updatedBy,omitempty" bson:"updated_by,omitempty"`
}

// DefaultSiteContent is served until an admin writes the document for the first time.
func DefaultSiteContent() *SiteContent {
	return &SiteContent{
		HeroTitle:    "Welcome to Our Website",
		HeroSubtitle: "Discover amazing products and services",
		AboutText:    "We are a company dedicated to providing the best services to our customers.",
		ContactInfo:  "Contact us at info@example.com",
	}
}
