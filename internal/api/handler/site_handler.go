package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

// SiteHandler serves the editable homepage copy.
type SiteHandler struct {
	service ports.SiteContentService
}

func NewSiteHandler(service ports.SiteContentService) *SiteHandler {
	return &SiteHandler{service: service}
}

// GetContent handles GET /api/site/content
//
// @Summary      Read homepage content
// @Description  Returns the stored content, or built-in defaults when none was saved.
// @Tags         site
// @Produce      json
// @Success      200  {object}  domain.SiteContent
// @Failure      500  {object}  errorResponse
// @Router       /api/site/content [get]
func (h *SiteHandler) GetContent(c echo.Context) error {
	content, err := h.service.Read(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, content)
}

// UpdateContent handles PUT /api/site/content
//
// @Summary      Update homepage content
// @Description  Merges the supplied fields into the stored document.
// @Tags         site
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      siteContentRequest  true  "Fields to change"
// @Success      200   {object}  siteContentWriteResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/site/content [put]
func (h *SiteHandler) UpdateContent(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req siteContentRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}

	content, err := h.service.Write(c.Request().Context(), ports.SiteContentPatch{
		HeroTitle:    req.HeroTitle,
		HeroSubtitle: req.HeroSubtitle,
		AboutText:    req.AboutText,
		ContactInfo:  req.ContactInfo,
	}, principal.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, siteContentWriteResponse{Success: true, SiteContent: content})
}
