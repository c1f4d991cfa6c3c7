package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production" | "test"
	DSN            string // resolved from Database
	RedisURL       string // empty when redis is not configured
	Database       DatabaseRuntimeConfig
	Redis          RedisRuntimeConfig
	Paths          RuntimePathsConfig
	AllowedOrigins []string
	ClientURL      string
	AdminURL       string
	JWTSecret      string
	Timezone       string
	Uploads        UploadsConfig
	Mail           MailConfig
	AI             AIConfig
	RateLimit      RateLimitConfig
	MongoURI       string // legacy document store, read by the import command only
}

type DatabaseRuntimeConfig struct {
	Driver    string
	DSN       string
	URL       string
	Path      string // sqlite file
	Host      string
	Port      int
	User      string
	Password  string
	Name      string
	Charset   string
	ParseTime bool
	Loc       string
	Params    map[string]string
	Debug     bool
}

type RedisRuntimeConfig struct {
	Enable   bool
	URL      string
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	TLS      bool
	Scheme   string
	Params   map[string]string
}

type RuntimePathsConfig struct {
	Logs    string
	Uploads string
}

type UploadsConfig struct {
	Backend   string // "local" | "s3"
	MaxSizeMB int
	S3        S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	PublicURL       string
	PathStyle       bool
}

type MailConfig struct {
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	Recipient string
	UseResend bool
	ResendKey string
	Timeout   time.Duration
}

type AIConfig struct {
	Provider    string // "openai" | "anthropic" | "none"
	APIKey      string
	Model       string
	Endpoint    string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	RetryAfter  time.Duration // zero keeps the remote path disabled until restart
}

type RateLimitConfig struct {
	Enable   bool
	Requests int
	Window   time.Duration
}

type rawAppConfig struct {
	Port               int               `yaml:"port"`
	Env                string            `yaml:"env"`
	NodeEnv            string            `yaml:"node_env"`
	DSN                string            `yaml:"dsn"`
	DatabaseURL        string            `yaml:"database_url"`
	RedisURL           string            `yaml:"redis_url"`
	Database           rawDatabaseConfig `yaml:"database"`
	Redis              rawRedisConfig    `yaml:"redis"`
	Paths              rawPathsConfig    `yaml:"paths"`
	LogDir             string            `yaml:"log_dir"`
	UploadDir          string            `yaml:"upload_dir"`
	AllowedOrigins     []string          `yaml:"allowed_origins"`
	CORSAllowedOrigins []string          `yaml:"cors_allowed_origins"`
	ClientURL          string            `yaml:"client_url"`
	AdminURL           string            `yaml:"admin_url"`
	JWTSecret          string            `yaml:"jwt_secret"`
	JWTSecretLegacy    string            `yaml:"jwtsecret"`
	Timezone           string            `yaml:"timezone"`
	TZ                 string            `yaml:"tz"`
	Uploads            rawUploadsConfig  `yaml:"uploads"`
	Mail               rawMailConfig     `yaml:"mail"`
	SMTP               rawMailConfig     `yaml:"smtp"`
	AI                 rawAIConfig       `yaml:"ai"`
	RateLimit          rawRateConfig     `yaml:"rate_limit"`
	MongoURI           string            `yaml:"mongodb_uri"`
}

type rawDatabaseConfig struct {
	Driver    string            `yaml:"driver"`
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Path      string            `yaml:"path"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
	Debug     bool              `yaml:"debug"`
}

type rawRedisConfig struct {
	Enable   *bool             `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

type rawPathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}

type rawUploadsConfig struct {
	Backend   string      `yaml:"backend"`
	MaxSizeMB int         `yaml:"max_size_mb"`
	S3        rawS3Config `yaml:"s3"`
}

type rawS3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
	PublicURL       string `yaml:"public_url"`
	PathStyle       *bool  `yaml:"path_style"`
}

type rawMailConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	Password  string `yaml:"password"`
	From      string `yaml:"from"`
	Recipient string `yaml:"recipient"`
	UseResend *bool  `yaml:"use_resend"`
	ResendKey string `yaml:"resend_key"`
	Timeout   string `yaml:"timeout"`
}

type rawAIConfig struct {
	Provider    string   `yaml:"provider"`
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	Endpoint    string   `yaml:"endpoint"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
	Timeout     string   `yaml:"timeout"`
	RetryAfter  string   `yaml:"retry_after"`
}

type rawRateConfig struct {
	Enable   *bool  `yaml:"enable"`
	Requests int    `yaml:"requests"`
	Window   string `yaml:"window"`
}
