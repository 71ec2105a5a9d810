package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

const imageField = "image"

// CommentHandler handles HTTP requests for comment operations.
type CommentHandler struct {
	service        ports.CommentService
	maxUploadBytes int64
}

func NewCommentHandler(service ports.CommentService, maxUploadBytes int64) *CommentHandler {
	return &CommentHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Create handles POST /api/comments
//
// @Summary      Submit a comment
// @Description  Accepts multipart/form-data (optional "image" file), urlencoded form or JSON. New comments are unapproved.
// @Tags         comments
// @Accept       mpfd
// @Produce      json
// @Param        fullName  formData  string  false  "Full name"
// @Param        email     formData  string  false  "Email"
// @Param        message   formData  string  false  "Message"
// @Param        image     formData  file    false  "Image attachment (image/*, max 5 MiB)"
// @Success      201  {object}  domain.Comment
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	req, err := readCommentRequest(c)
	if err != nil {
		return err
	}

	upload, closeFile, err := h.readImage(c)
	if err != nil {
		return err
	}
	defer closeFile()

	comment, err := h.service.Create(c.Request().Context(), ports.CreateCommentInput{
		FullName: deref(req.FullName),
		Email:    deref(req.Email),
		Company:  deref(req.Company),
		Phone:    deref(req.Phone),
		Website:  deref(req.Website),
		Products: deref(req.Products),
		Message:  deref(req.Message),
		Image:    upload,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// List handles GET /api/comments
//
// @Summary      List comments
// @Description  Returns every comment, newest first.
// @Tags         comments
// @Produce      json
// @Success      200  {array}   domain.Comment
// @Failure      500  {object}  errorResponse
// @Router       /api/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// Get handles GET /api/comments/:id
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  domain.Comment
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	comment, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Approve handles PUT /api/comments/:id/approve
//
// @Summary      Approve a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  commentActionResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id}/approve [put]
func (h *CommentHandler) Approve(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Approve(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentActionResponse{Success: true, ID: id})
}

// Update handles PUT /api/comments/:id
//
// @Summary      Update a comment
// @Description  Only fields present in the request change. removeImage=true clears the image and wins over a new upload.
// @Tags         comments
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Comment ID"
// @Param        image        formData  file    false  "Replacement image"
// @Param        removeImage  formData  string  false  "\"true\" removes the current image"
// @Success      200  {object}  domain.Comment
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	req, err := readCommentRequest(c)
	if err != nil {
		return err
	}

	input := ports.UpdateCommentInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Company:     req.Company,
		Phone:       req.Phone,
		Website:     req.Website,
		Products:    req.Products,
		Message:     req.Message,
		Approved:    req.Approved,
		RemoveImage: isLiteralTrue(req.RemoveImage),
	}

	if !input.RemoveImage {
		upload, closeFile, err := h.readImage(c)
		if err != nil {
			return err
		}
		defer closeFile()
		input.Image = upload
	}

	comment, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/:id
//
// @Summary      Delete a comment
// @Description  Removes the comment and, best effort, its image. Deleting a missing comment succeeds.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  commentActionResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentActionResponse{Success: true, ID: id})
}

// readImage returns the "image" part of a multipart request, or nil when the
// request carries none. The returned close func is always safe to call.
func (h *CommentHandler) readImage(c echo.Context) (*domain.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}

	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	return h.openUpload(fh)
}

// openUpload checks the size, then sniffs the content. The declared part
// Content-Type and the client filename never decide the stored type.
func (h *CommentHandler) openUpload(fh *multipart.FileHeader) (*domain.Upload, func(), error) {
	noop := func() {}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return nil, noop, domain.ErrAttachmentTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	closeFile := func() { _ = f.Close() }

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		closeFile()
		return nil, noop, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		closeFile()
		return nil, noop, fmt.Errorf("rewind upload: %w", err)
	}

	upload := &domain.Upload{
		Filename:    fh.Filename,
		ContentType: mtype.String(),
		Size:        fh.Size,
		Body:        f,
	}
	if !upload.IsImage() {
		closeFile()
		return nil, noop, domain.ErrUnsupportedMediaType
	}
	return upload, closeFile, nil
}

// readCommentRequest reads comment fields from JSON or from form values. Only
// keys present in the request are non-nil.
func readCommentRequest(c echo.Context) (*commentRequest, error) {
	var req commentRequest

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput)
		}
		return &req, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	for key, dst := range map[string]**string{
		"fullName": &req.FullName,
		"email":    &req.Email,
		"company":  &req.Company,
		"phone":    &req.Phone,
		"website":  &req.Website,
		"products": &req.Products,
		"message":  &req.Message,
	} {
		if values, ok := form[key]; ok && len(values) > 0 {
			v := values[0]
			*dst = &v
		}
	}
	if values, ok := form["approved"]; ok && len(values) > 0 {
		b, err := strconv.ParseBool(values[0])
		if err != nil {
			return nil, fmt.Errorf("%w: approved must be a boolean", domain.ErrInvalidInput)
		}
		req.Approved = &b
	}
	if values, ok := form["removeImage"]; ok && len(values) > 0 {
		req.RemoveImage = values[0]
	}
	return &req, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func isLiteralTrue(v any) bool {
	s, ok := v.(string)
	return ok && s == "true"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
