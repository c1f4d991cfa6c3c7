package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/pkg/mail"
	"github.com/shagor/portfolio-core/internal/pkg/metrics"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Relay delivers the owner notification.
type Relay interface {
	Configured() bool
	Send(ctx context.Context, msg mail.Message) error
}

type Service struct {
	db        *gorm.DB
	relay     Relay
	recipient string
	log       *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(db *gorm.DB, relay Relay, recipient string, log *zap.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:        db,
		relay:     relay,
		recipient: strings.TrimSpace(recipient),
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// Send stores the message and then relays it to the site owner. A relay
// problem yields the saved record together with ErrEmailUnavailable.
func (s *Service) Send(ctx context.Context, dto *SendDTO) (*models.ContactModel, error) {
	msg := models.ContactModel{
		Name:    strings.TrimSpace(dto.Name),
		Phone:   strings.TrimSpace(dto.Phone),
		Email:   strings.ToLower(strings.TrimSpace(dto.Email)),
		Subject: strings.TrimSpace(dto.Subject),
		Message: strings.TrimSpace(dto.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return nil, errContactRequired
	}
	if !validation.IsEmail(msg.Email) {
		return nil, errEmailInvalid
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}

	if s.relay == nil || !s.relay.Configured() || s.recipient == "" {
		s.metrics.Mail("unconfigured")
		s.log.Warn("contact: mail relay not configured, message stored only", zap.String("id", msg.ID))
		return &msg, fmt.Errorf("%w: %w", ErrEmailUnavailable, mail.ErrNotConfigured)
	}

	out, err := mail.ContactMessage(s.recipient, mail.ContactNotifyData{
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Subject: msg.Subject,
		Message: msg.Message,
	}, s.now())
	if err == nil {
		err = s.relay.Send(ctx, out)
	}
	if err != nil {
		s.metrics.Mail("failed")
		s.log.Error("contact: relay failed", zap.String("id", msg.ID), zap.Error(err))
		if errors.Is(err, mail.ErrNotConfigured) {
			return &msg, fmt.Errorf("%w: %w", ErrEmailUnavailable, err)
		}
		return &msg, fmt.Errorf("%w: %v", ErrEmailUnavailable, err)
	}
	s.metrics.Mail("sent")
	return &msg, nil
}

// List returns stored messages, newest first.
func (s *Service) List() ([]models.ContactModel, error) {
	items := []models.ContactModel{}
	err := s.db.Order("created_at DESC").Find(&items).Error
	return items, err
}
