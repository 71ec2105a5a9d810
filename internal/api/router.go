package api

import (
	"path/filepath"
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/savannaherds/site-api/internal/api/handler"
	"github.com/savannaherds/site-api/internal/api/middleware"
	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
	"github.com/savannaherds/site-api/internal/infrastructure/http/handlers"
)

// multipart framing and text fields on top of the largest accepted image
const bodyOverheadBytes = 1 << 20

// Options tunes the HTTP surface.
type Options struct {
	PublicDir       string
	UploadDir       string // served under UploadURLPrefix when non-empty
	UploadURLPrefix string
	MaxUploadBytes  int64
	SuccessRedirect string
	EnableMetrics   bool
	EnableSwagger   bool
}

// Dependencies are the services the router exposes.
type Dependencies struct {
	Logger   zerolog.Logger
	Auth     ports.AuthService
	Tokens   ports.TokenIssuer // nil unless the identity provider issues tokens
	Comments ports.CommentService
	Site     ports.SiteContentService
	Users    ports.UserService
	Contact  ports.ContactService
	Health   []handlers.Dependency
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(strconv.FormatInt(opts.MaxUploadBytes+bodyOverheadBytes, 10)))
	if opts.EnableMetrics {
		e.Use(echoprometheus.NewMiddleware("site"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Gates ---
	authenticated := middleware.Authenticate(deps.Auth)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Tokens)
	commentHandler := handler.NewCommentHandler(deps.Comments, opts.MaxUploadBytes)
	siteHandler := handler.NewSiteHandler(deps.Site)
	userHandler := handler.NewUserHandler(deps.Users)
	contactHandler := handler.NewContactHandler(deps.Contact, opts.SuccessRedirect, deps.Logger)

	apiGroup := e.Group("/api")

	apiGroup.POST("/send-email", contactHandler.SendEmail)

	auth := apiGroup.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify", authHandler.Verify)
	auth.POST("/token", authHandler.IssueToken)

	comments := apiGroup.Group("/comments")
	comments.POST("", commentHandler.Create)
	comments.GET("", commentHandler.List)
	comments.GET("/:id", commentHandler.Get)
	comments.PUT("/:id/approve", commentHandler.Approve, authenticated, adminOnly)
	comments.PUT("/:id", commentHandler.Update, authenticated, adminOnly)
	comments.DELETE("/:id", commentHandler.Delete, authenticated, adminOnly)

	site := apiGroup.Group("/site")
	site.GET("/content", siteHandler.GetContent)
	site.PUT("/content", siteHandler.UpdateContent, authenticated, adminOnly)

	users := apiGroup.Group("/users", authenticated, adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.UpdateRole)
	users.DELETE("/:id", userHandler.Delete)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Health...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	if opts.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- Static site ---
	if opts.UploadDir != "" {
		e.Static(opts.UploadURLPrefix, opts.UploadDir)
	}
	if opts.PublicDir != "" {
		e.File("/", filepath.Join(opts.PublicDir, "contact.html"))
		e.Static("/", opts.PublicDir)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
