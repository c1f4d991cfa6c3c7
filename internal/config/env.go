package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. Variables win over the config file.
func ApplyEnv(cfg *AppConfig, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = b
		return nil
	}

	if err := num("PORT", &cfg.Port); err != nil {
		return err
	}
	str("NODE_ENV", &cfg.Env)
	str("APP_ENV", &cfg.Env)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("CLIENT_URL", &cfg.ClientURL)
	str("ADMIN_URL", &cfg.AdminURL)
	str("MONGODB_URI", &cfg.MongoURI)
	str("LOG_DIR", &cfg.Paths.Logs)
	str("UPLOAD_DIR", &cfg.Paths.Uploads)
	str("UPLOADS_DIR", &cfg.Paths.Uploads)
	str("TZ", &cfg.Timezone)
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}

	str("DATABASE_DRIVER", &cfg.Database.Driver)
	str("DATABASE_DSN", &cfg.Database.DSN)
	str("DATABASE_URL", &cfg.Database.URL)
	str("SQLITE_PATH", &cfg.Database.Path)

	if v, ok := lookup("REDIS_URL"); ok && strings.TrimSpace(v) != "" {
		cfg.Redis.URL = strings.TrimSpace(v)
		cfg.Redis.Enable = true
	}

	str("UPLOAD_BACKEND", &cfg.Uploads.Backend)
	if err := num("UPLOAD_MAX_SIZE_MB", &cfg.Uploads.MaxSizeMB); err != nil {
		return err
	}
	str("S3_BUCKET", &cfg.Uploads.S3.Bucket)
	str("S3_REGION", &cfg.Uploads.S3.Region)
	str("S3_ENDPOINT", &cfg.Uploads.S3.Endpoint)
	str("S3_ACCESS_KEY_ID", &cfg.Uploads.S3.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &cfg.Uploads.S3.SecretAccessKey)
	str("S3_PUBLIC_URL", &cfg.Uploads.S3.PublicURL)
	if err := flag("S3_PATH_STYLE", &cfg.Uploads.S3.PathStyle); err != nil {
		return err
	}

	str("SMTP_HOST", &cfg.Mail.Host)
	if err := num("SMTP_PORT", &cfg.Mail.Port); err != nil {
		return err
	}
	str("GMAIL_USER", &cfg.Mail.User)
	str("SMTP_USER", &cfg.Mail.User)
	str("GMAIL_APP_PASSWORD", &cfg.Mail.Pass)
	str("SMTP_PASSWORD", &cfg.Mail.Pass)
	str("SMTP_FROM", &cfg.Mail.From)
	str("RECIPIENT_EMAIL", &cfg.Mail.Recipient)
	if v, ok := lookup("RESEND_API_KEY"); ok && strings.TrimSpace(v) != "" {
		cfg.Mail.ResendKey = strings.TrimSpace(v)
		cfg.Mail.UseResend = true
	}

	str("AI_PROVIDER", &cfg.AI.Provider)
	str("AI_MODEL", &cfg.AI.Model)
	str("AI_ENDPOINT", &cfg.AI.Endpoint)
	if err := dur("AI_RETRY_AFTER", &cfg.AI.RetryAfter); err != nil {
		return err
	}
	if cfg.AI.APIKey == "" {
		switch strings.ToLower(strings.TrimSpace(cfg.AI.Provider)) {
		case "anthropic", "claude":
			str("ANTHROPIC_API_KEY", &cfg.AI.APIKey)
		default:
			str("OPENAI_API_KEY", &cfg.AI.APIKey)
		}
	}

	if err := flag("RATE_LIMIT_ENABLE", &cfg.RateLimit.Enable); err != nil {
		return err
	}
	if err := num("RATE_LIMIT_REQUESTS", &cfg.RateLimit.Requests); err != nil {
		return err
	}
	return dur("RATE_LIMIT_WINDOW", &cfg.RateLimit.Window)
}
