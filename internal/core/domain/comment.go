package domain

import (
	"errors"
	"time"
)

var ErrCommentNotFound = errors.New("comment not found")

// Comment is a public submission (inquiry or testimonial) awaiting or past moderation.
type Comment struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	FullName  string     `json:"fullName" bson:"full_name"`
	Email     string     `json:"email" bson:"email"`
	Company   string     `json:"company" bson:"company"`
	Phone     string     `json:"phone" bson:"phone"`
	Website   string     `json:"website" bson:"website"`
	Products  string     `json:"products" bson:"products"`
	Message   string     `json:"message" bson:"message"`
	ImageURL  *string    `json:"imageUrl" bson:"image_url"`
	Approved  bool       `json:"approved" bson:"approved"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// HasImage reports whether the comment references a stored attachment.
func (c *Comment) HasImage() bool {
	return c.ImageURL != nil && *c.ImageURL != ""
}

// MissingRequired lists the required fields left empty on submission.
func (c *Comment) MissingRequired() []string {
	var missing []string
	if c.FullName == "" {
		missing = append(missing, "fullName")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Message == "" {
		missing = append(missing, "message")
	}
	return missing
}
