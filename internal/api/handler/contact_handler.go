package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

const sendFailedText = "Error sending email. Please try again later."

// ContactHandler relays the public contact form.
type ContactHandler struct {
	service         ports.ContactService
	successRedirect string
	log             zerolog.Logger
}

func NewContactHandler(service ports.ContactService, successRedirect string, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service:         service,
		successRedirect: successRedirect,
		log:             log.With().Str("component", "contact_handler").Logger(),
	}
}

// SendEmail handles POST /api/send-email
//
// @Summary      Send the contact form
// @Description  On success the browser is redirected to the thank-you page.
// @Tags         contact
// @Accept       x-www-form-urlencoded,json
// @Produce      plain
// @Param        body  body  contactRequest  true  "Contact form"
// @Success      303
// @Failure      400  {object}  errorResponse
// @Failure      500  {string}  string
// @Router       /api/send-email [post]
func (h *ContactHandler) SendEmail(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	err := h.service.Submit(c.Request().Context(), domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.log.Error().Err(err).Str("reply_to", req.Email).Msg("contact email failed")
		return c.String(http.StatusInternalServerError, sendFailedText)
	}

	return c.Redirect(http.StatusSeeOther, h.successRedirect)
}
