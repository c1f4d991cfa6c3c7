package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config file, then overlays environment variables.
// A missing file is tolerated only when configPath is empty.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeInto(&cfg, content, path); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := finalize(&cfg); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

// Parse decodes YAML content on top of the defaults without touching the environment.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if err := decodeInto(&cfg, content, "<inline>"); err != nil {
		return nil, err
	}
	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeInto(cfg *AppConfig, content []byte, path string) error {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return applyRawAppConfig(cfg, raw)
}

func finalize(cfg *AppConfig) error {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.Uploads = normalizeUploads(cfg.Uploads)
	cfg.Mail = normalizeMail(cfg.Mail)
	cfg.AI = normalizeAI(cfg.AI)
	cfg.RateLimit = normalizeRateLimit(cfg.RateLimit)
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
	cfg.AllowedOrigins = normalizeOrigins(append(cfg.AllowedOrigins, cfg.ClientURL, cfg.AdminURL))

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	switch cfg.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q, expected mysql or sqlite", cfg.Database.Driver)
	}
	if cfg.Database.Driver == "mysql" && (cfg.Database.Port < 1 || cfg.Database.Port > 65535) {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.Enable && cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	switch cfg.Uploads.Backend {
	case "local":
	case "s3":
		if cfg.Uploads.S3.Bucket == "" {
			return errors.New("uploads.s3.bucket is required when uploads.backend is s3")
		}
	default:
		return fmt.Errorf("unsupported uploads.backend %q, expected local or s3", cfg.Uploads.Backend)
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = ""
	if cfg.Redis.Enable {
		cfg.RedisURL = cfg.Redis.URLValue()
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDBDriver,
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Uploads: UploadsConfig{
			Backend:   defaultUploadBackend,
			MaxSizeMB: defaultUploadMaxMB,
		},
		Mail: MailConfig{
			Host:    defaultSMTPHost,
			Port:    defaultSMTPPort,
			Timeout: defaultMailTimeout,
		},
		AI: AIConfig{
			Provider:    defaultAIProvider,
			MaxTokens:   defaultAIMaxTokens,
			Temperature: defaultAITemp,
			Timeout:     defaultAITimeout,
		},
		RateLimit: RateLimitConfig{
			Enable:   true,
			Requests: defaultRateRequests,
			Window:   defaultRateWindow,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.Paths.Uploads); v != "" {
		cfg.Paths.Uploads = v
	}
	if v := strings.TrimSpace(raw.UploadDir); v != "" {
		cfg.Paths.Uploads = v
	}
	if len(raw.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = append([]string(nil), raw.AllowedOrigins...)
	}
	if len(raw.CORSAllowedOrigins) > 0 {
		cfg.AllowedOrigins = append([]string(nil), raw.CORSAllowedOrigins...)
	}
	if v := strings.TrimSpace(raw.ClientURL); v != "" {
		cfg.ClientURL = v
	}
	if v := strings.TrimSpace(raw.AdminURL); v != "" {
		cfg.AdminURL = v
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.JWTSecretLegacy); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}

	if v := strings.TrimSpace(raw.MongoURI); v != "" {
		cfg.MongoURI = v
	}
	cfg.Uploads = applyRawUploadsConfig(cfg.Uploads, raw.Uploads)

	var err error
	if cfg.Mail, err = applyRawMailConfig(cfg.Mail, raw.SMTP); err != nil {
		return err
	}
	if cfg.Mail, err = applyRawMailConfig(cfg.Mail, raw.Mail); err != nil {
		return err
	}
	if cfg.AI, err = applyRawAIConfig(cfg.AI, raw.AI); err != nil {
		return err
	}
	if cfg.RateLimit, err = applyRawRateConfig(cfg.RateLimit, raw.RateLimit); err != nil {
		return err
	}
	return nil
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	out := current
	db := raw.Database
	if v := strings.TrimSpace(db.Driver); v != "" {
		out.Driver = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		out.DSN = v
	}
	if v := strings.TrimSpace(db.DSN); v != "" {
		out.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		out.URL = v
	}
	if v := strings.TrimSpace(db.URL); v != "" {
		out.URL = v
	}
	if v := strings.TrimSpace(db.Path); v != "" {
		out.Path = v
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		out.Host = v
	}
	if db.Port != 0 {
		out.Port = db.Port
	}
	if v := strings.TrimSpace(db.User); v != "" {
		out.User = v
	}
	if v := strings.TrimSpace(db.Username); v != "" {
		out.User = v
	}
	if db.Password != "" {
		out.Password = db.Password
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		out.Name = v
	}
	if v := strings.TrimSpace(db.DBName); v != "" {
		out.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		out.Charset = v
	}
	if db.ParseTime != nil {
		out.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		out.Loc = v
	}
	if len(db.Params) > 0 {
		out.Params = copyStringMap(db.Params)
	}
	if db.Debug {
		out.Debug = true
	}
	return out
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	out := current
	r := raw.Redis
	configured := false
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		out.URL = v
		configured = true
	}
	if v := strings.TrimSpace(r.URL); v != "" {
		out.URL = v
		configured = true
	}
	if v := strings.TrimSpace(r.Host); v != "" {
		out.Host = v
		configured = true
	}
	if r.Port != 0 {
		out.Port = r.Port
	}
	if v := strings.TrimSpace(r.Username); v != "" {
		out.Username = v
	}
	if r.Password != "" {
		out.Password = r.Password
	}
	if r.DB != nil {
		out.DB = *r.DB
	}
	if r.TLS != nil {
		out.TLS = *r.TLS
	}
	if v := strings.TrimSpace(r.Scheme); v != "" {
		out.Scheme = v
	}
	if len(r.Params) > 0 {
		out.Params = copyStringMap(r.Params)
	}
	if configured {
		out.Enable = true
	}
	if r.Enable != nil {
		out.Enable = *r.Enable
	}
	return out
}

func applyRawUploadsConfig(current UploadsConfig, raw rawUploadsConfig) UploadsConfig {
	out := current
	if v := strings.TrimSpace(raw.Backend); v != "" {
		out.Backend = v
	}
	if raw.MaxSizeMB > 0 {
		out.MaxSizeMB = raw.MaxSizeMB
	}
	s3 := raw.S3
	if v := strings.TrimSpace(s3.Bucket); v != "" {
		out.S3.Bucket = v
	}
	if v := strings.TrimSpace(s3.Region); v != "" {
		out.S3.Region = v
	}
	if v := strings.TrimSpace(s3.Endpoint); v != "" {
		out.S3.Endpoint = v
	}
	if v := strings.TrimSpace(s3.AccessKeyID); v != "" {
		out.S3.AccessKeyID = v
	}
	if v := strings.TrimSpace(s3.SecretAccessKey); v != "" {
		out.S3.SecretAccessKey = v
	}
	if v := strings.TrimSpace(s3.Prefix); v != "" {
		out.S3.Prefix = v
	}
	if v := strings.TrimSpace(s3.PublicURL); v != "" {
		out.S3.PublicURL = v
	}
	if s3.PathStyle != nil {
		out.S3.PathStyle = *s3.PathStyle
	}
	return out
}

func applyRawMailConfig(current MailConfig, raw rawMailConfig) (MailConfig, error) {
	out := current
	if v := strings.TrimSpace(raw.Host); v != "" {
		out.Host = v
	}
	if raw.Port != 0 {
		out.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		out.User = v
	}
	if raw.Pass != "" {
		out.Pass = raw.Pass
	}
	if raw.Password != "" {
		out.Pass = raw.Password
	}
	if v := strings.TrimSpace(raw.From); v != "" {
		out.From = v
	}
	if v := strings.TrimSpace(raw.Recipient); v != "" {
		out.Recipient = v
	}
	if raw.UseResend != nil {
		out.UseResend = *raw.UseResend
	}
	if v := strings.TrimSpace(raw.ResendKey); v != "" {
		out.ResendKey = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return out, fmt.Errorf("invalid mail.timeout %q: %w", v, err)
		}
		out.Timeout = d
	}
	return out, nil
}

func applyRawAIConfig(current AIConfig, raw rawAIConfig) (AIConfig, error) {
	out := current
	if v := strings.TrimSpace(raw.Provider); v != "" {
		out.Provider = v
	}
	if v := strings.TrimSpace(raw.APIKey); v != "" {
		out.APIKey = v
	}
	if v := strings.TrimSpace(raw.Model); v != "" {
		out.Model = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		out.Endpoint = v
	}
	if raw.MaxTokens > 0 {
		out.MaxTokens = raw.MaxTokens
	}
	if raw.Temperature != nil {
		out.Temperature = *raw.Temperature
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return out, fmt.Errorf("invalid ai.timeout %q: %w", v, err)
		}
		out.Timeout = d
	}
	if v := strings.TrimSpace(raw.RetryAfter); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return out, fmt.Errorf("invalid ai.retry_after %q: %w", v, err)
		}
		out.RetryAfter = d
	}
	return out, nil
}

func applyRawRateConfig(current RateLimitConfig, raw rawRateConfig) (RateLimitConfig, error) {
	out := current
	if raw.Enable != nil {
		out.Enable = *raw.Enable
	}
	if raw.Requests > 0 {
		out.Requests = raw.Requests
	}
	if v := strings.TrimSpace(raw.Window); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return out, fmt.Errorf("invalid rate_limit.window %q: %w", v, err)
		}
		out.Window = d
	}
	return out, nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return ResolveRuntimePath("", "logs")
	}
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

func (c *AppConfig) UploadDir() string {
	if c == nil {
		return ResolveRuntimePath("", "uploads")
	}
	return ResolveRuntimePath(c.Paths.Uploads, "uploads")
}

// MaxUploadBytes is the largest accepted CV file.
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Uploads.MaxSizeMB) << 20
}

// MailEnabled reports whether enough credentials exist to relay contact mail.
func (c *AppConfig) MailEnabled() bool {
	if c.Mail.UseResend {
		return c.Mail.ResendKey != "" && c.Mail.From != ""
	}
	return c.Mail.User != "" && c.Mail.Pass != ""
}
