package mail

import (
	"github.com/shagor/portfolio-core/internal/config"
)

// BuildMailConfig maps the application's mail settings onto a transport Config.
func BuildMailConfig(cfg *config.AppConfig) Config {
	if cfg == nil {
		return Config{}
	}
	return Config{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		User:      cfg.Mail.User,
		Pass:      cfg.Mail.Pass,
		From:      cfg.Mail.From,
		UseResend: cfg.Mail.UseResend,
		ResendKey: cfg.Mail.ResendKey,
		Timeout:   cfg.Mail.Timeout,
	}
}
