package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/pkg/jwt"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	tokenTTL time.Duration
	cost     int
	log      *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, tokenTTL: jwt.DefaultTTL, cost: bcrypt.DefaultCost, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) GetByID(id string) (*models.AdminModel, error) {
	var a models.AdminModel
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *Service) GetByEmail(email string) (*models.AdminModel, error) {
	var a models.AdminModel
	if err := s.db.First(&a, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Login checks the credentials and issues a signed session token.
func (s *Service) Login(email, password, ip string) (string, *models.AdminModel, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, errCredentialsMissing
	}
	a, err := s.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if a == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	// a failed bookkeeping write does not block the login
	if err := s.db.Model(a).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	}).Error; err != nil {
		s.log.Warn("record last login failed", zap.String("admin", a.ID), zap.Error(err))
	}
	a.LastLoginTime = &now
	a.LastLoginIP = ip

	token, err := jwt.Sign(a.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, a, nil
}

// Register creates an admin account. Email is stored lower-cased.
func (s *Service) Register(dto *RegisterDTO) (*models.AdminModel, error) {
	email := normalizeEmail(dto.Email)
	if email == "" || dto.Password == "" {
		return nil, errCredentialsMissing
	}
	if !validation.IsEmail(email) {
		return nil, errEmailInvalid
	}
	if len(dto.Password) < minPasswordLength {
		return nil, errPasswordTooShort
	}

	existing, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.cost)
	if err != nil {
		return nil, err
	}
	a := models.AdminModel{Email: email, Password: string(hash)}
	if err := s.db.Create(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	return &a, nil
}

// SetPassword replaces the password of an existing admin.
func (s *Service) SetPassword(email, password string) error {
	if len(password) < minPasswordLength {
		return errPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	res := s.db.Model(&models.AdminModel{}).Where("email = ?", normalizeEmail(email)).Update("password", string(hash))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidCredentials
	}
	return nil
}

func toAdminResponse(a *models.AdminModel) *adminResponse {
	if a == nil {
		return nil
	}
	return &adminResponse{
		ID:            a.ID,
		Email:         a.Email,
		CreatedAt:     a.CreatedAt,
		LastLoginTime: a.LastLoginTime,
	}
}
