package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 5000
	defaultEnv        = "development"

	defaultDBDriver   = "mysql"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "portfolio"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSQLitePath = "data/portfolio.db"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultUploadBackend = "local"
	defaultUploadMaxMB   = 10

	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = 587

	defaultAIProvider   = "openai"
	defaultOpenAIModel  = "gpt-3.5-turbo"
	defaultClaudeModel  = "claude-haiku-4-5-20251001"
	defaultAIMaxTokens  = 300
	defaultAITemp       = 0.7
	defaultAITimeout    = 30 * time.Second
	defaultMailTimeout  = 15 * time.Second
	defaultRateRequests = 20
	defaultRateWindow   = time.Minute
)
