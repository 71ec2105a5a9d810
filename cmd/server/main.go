package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/savannaherds/site-api/docs"
	"github.com/savannaherds/site-api/internal/api"
	"github.com/savannaherds/site-api/internal/core/ports"
	"github.com/savannaherds/site-api/internal/core/service"
	"github.com/savannaherds/site-api/internal/infrastructure/config"
	"github.com/savannaherds/site-api/internal/infrastructure/db/mongo"
	"github.com/savannaherds/site-api/internal/infrastructure/db/redis"
	"github.com/savannaherds/site-api/internal/infrastructure/http/handlers"
	"github.com/savannaherds/site-api/internal/infrastructure/identity"
	"github.com/savannaherds/site-api/internal/infrastructure/mail"
	"github.com/savannaherds/site-api/internal/infrastructure/storage"
	"github.com/savannaherds/site-api/pkg/logger"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Site API
//	@version		1.0
//	@description	Contact form relay, moderated comments, homepage content and the admin user directory.
//	@BasePath		/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "site-api",
		Version: version,
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server exited gracefully")
}

// run owns every connection; its deferred closes execute before main exits.
func run(ctx context.Context, cfg *config.Config) error {
	base := logger.Get()
	log := logger.Component("server")

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		URIFile:  cfg.Mongo.URIFile,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	health := []handlers.Dependency{{Name: "mongo", Pinger: mongo.NewPinger(db)}}

	var (
		redisClient *goredis.Client
		dedup       ports.SubmissionDedup
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()

		dedup = redis.NewSubmissionDedup(redisClient)
		health = append(health, handlers.Dependency{Name: "redis", Pinger: redis.NewPinger(redisClient)})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	idp, issuer, err := newIdentityProvider(ctx, cfg, db, base)
	if err != nil {
		return err
	}

	store, err := newAttachmentStore(ctx, cfg)
	if err != nil {
		return err
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:               cfg.Mail.Host,
		Port:               cfg.Mail.Port,
		Username:           cfg.Mail.User,
		Password:           cfg.Mail.Password,
		InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
	}, base)
	if err != nil {
		return err
	}

	roles := mongo.NewRoleRepository(db)
	users := service.NewUserService(idp, roles, base)

	if _, err := users.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	deps := api.Dependencies{
		Logger:   base,
		Auth:     service.NewAuthService(idp, roles, base),
		Comments: service.NewCommentService(mongo.NewCommentRepository(db), store, base),
		Site:     service.NewSiteContentService(mongo.NewSiteContentRepository(db), base),
		Users:    users,
		Contact: service.NewContactService(mailer, dedup, service.ContactOptions{
			LegacySubject: cfg.Mail.LegacySubject,
			DedupWindow:   cfg.Mail.DedupWindow,
		}, base),
		Health: health,
		Tokens: issuer,
	}

	opts := api.Options{
		PublicDir:       cfg.PublicDir,
		MaxUploadBytes:  cfg.Attachments.MaxUploadBytes,
		SuccessRedirect: cfg.Mail.SuccessRedirect,
		EnableMetrics:   true,
		EnableSwagger:   !cfg.IsProduction(),
	}
	if cfg.Attachments.Backend == config.AttachmentBackendLocal {
		opts.UploadDir = cfg.Attachments.UploadDir
		opts.UploadURLPrefix = cfg.Attachments.URLPrefix
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps, opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("auth_provider", cfg.Auth.Provider).
			Str("attachments", store.Backend()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newIdentityProvider returns the configured provider and, for the built-in
// provider only, the token issuer.
func newIdentityProvider(ctx context.Context, cfg *config.Config, db *mongodriver.Database, log zerolog.Logger) (ports.IdentityProvider, ports.TokenIssuer, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderOIDC:
		p, err := identity.NewOIDCProvider(ctx, identity.OIDCConfig{
			Issuer:   cfg.Auth.OIDCIssuer,
			ClientID: cfg.Auth.OIDCClientID,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	default:
		p := service.NewLocalIdentityProvider(mongo.NewCredentialRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		return p, p, nil
	}
}

func newAttachmentStore(ctx context.Context, cfg *config.Config) (ports.AttachmentStore, error) {
	switch cfg.Attachments.Backend {
	case config.AttachmentBackendS3:
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			Prefix:        cfg.Storage.Prefix,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
			UsePathStyle:  cfg.Storage.UsePathStyle,
			SignedURLTTL:  cfg.Storage.SignedURLTTL,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	default:
		localStore, err := storage.NewLocalStore(cfg.Attachments.UploadDir, cfg.Attachments.URLPrefix)
		if err != nil {
			return nil, err
		}
		return localStore, nil
	}
}
