package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	AuthProviderLocal = "local"
	AuthProviderOIDC  = "oidc"

	AttachmentBackendLocal = "local"
	AttachmentBackendS3    = "s3"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	PublicDir string `env:"PUBLIC_DIR, default=public"`

	Mongo       MongoConfig
	Redis       RedisConfig
	Mail        MailConfig
	Auth        AuthConfig
	Attachments AttachmentConfig
	Storage     StorageConfig
	Admin       AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI,      default=mongodb://localhost:27017"`
	URIFile  string `env:"MONGO_URI_FILE"`
	Database string `env:"MONGO_DB,       default=site"`
}

// RedisConfig enables contact dedup and the redis readiness check when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type MailConfig struct {
	Host               string        `env:"SMTP_HOST,                 default=smtp.gmail.com"`
	Port               int           `env:"SMTP_PORT,                 default=465"`
	User               string        `env:"EMAIL_USER"`
	Password           string        `env:"EMAIL_PASS"`
	InsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY, default=false"`
	SuccessRedirect    string        `env:"MAIL_SUCCESS_REDIRECT,     default=/success.html"`
	LegacySubject      bool          `env:"MAIL_LEGACY_SUBJECT,       default=true"`
	DedupWindow        time.Duration `env:"MAIL_DEDUP_WINDOW,         default=10m"`
}

type AuthConfig struct {
	Provider     string        `env:"AUTH_PROVIDER,  default=local"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,      default=24h"`
	OIDCIssuer   string        `env:"OIDC_ISSUER"`
	OIDCClientID string        `env:"OIDC_CLIENT_ID"`
}

// AdminConfig names the account created at startup when no admin exists yet.
// Only the local identity provider can create it.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type AttachmentConfig struct {
	Backend        string `env:"ATTACHMENT_BACKEND, default=local"`
	UploadDir      string `env:"UPLOAD_DIR,         default=public/images/comments"`
	URLPrefix      string `env:"UPLOAD_URL_PREFIX,  default=/images/comments"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES,   default=5242880"`
}

type StorageConfig struct {
	Bucket        string        `env:"STORAGE_BUCKET"`
	Region        string        `env:"STORAGE_REGION,          default=us-east-1"`
	Endpoint      string        `env:"STORAGE_ENDPOINT"`
	AccessKey     string        `env:"STORAGE_ACCESS_KEY"`
	SecretKey     string        `env:"STORAGE_SECRET_KEY"`
	Prefix        string        `env:"STORAGE_PREFIX,          default=comments"`
	PublicBaseURL string        `env:"STORAGE_PUBLIC_BASE_URL"`
	UsePathStyle  bool          `env:"STORAGE_USE_PATH_STYLE,  default=false"`
	SignedURLTTL  time.Duration `env:"STORAGE_SIGNED_URL_TTL,  default=0s"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Auth.Provider {
	case AuthProviderLocal:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_PROVIDER=local"))
		}
	case AuthProviderOIDC:
		if c.Auth.OIDCIssuer == "" || c.Auth.OIDCClientID == "" {
			errs = append(errs, errors.New("OIDC_ISSUER and OIDC_CLIENT_ID are required when AUTH_PROVIDER=oidc"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider))
	}

	switch c.Attachments.Backend {
	case AttachmentBackendLocal:
		if c.Attachments.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required when ATTACHMENT_BACKEND=local"))
		}
	case AttachmentBackendS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("STORAGE_BUCKET is required when ATTACHMENT_BACKEND=s3"))
		}
		if (c.Storage.AccessKey == "") != (c.Storage.SecretKey == "") {
			errs = append(errs, errors.New("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY must be set together"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ATTACHMENT_BACKEND %q", c.Attachments.Backend))
	}

	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	if c.Admin.Email != "" && c.Auth.Provider != AuthProviderLocal {
		errs = append(errs, errors.New("ADMIN_EMAIL requires AUTH_PROVIDER=local"))
	}
	if c.Admin.Password != "" && len(c.Admin.Password) < 6 {
		errs = append(errs, errors.New("ADMIN_PASSWORD must be at least 6 characters"))
	}

	if c.Attachments.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
