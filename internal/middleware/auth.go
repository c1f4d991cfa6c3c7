package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/pkg/jwt"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"gorm.io/gorm"
)

const ContextKeyAdminID = "admin_id"

var (
	errTokenRequired = errors.New("token is required")
	errAdminGone     = errors.New("admin account no longer exists")
)

// Auth returns a middleware that requires a valid admin bearer token.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateTokenClaims(db, c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, errTokenRequired) {
				response.UnauthorizedMsg(c, "No token, authorization denied")
			} else {
				response.UnauthorizedMsg(c, "Token is not valid")
			}
			return
		}
		c.Set(ContextKeyAdminID, claims.AdminID)
		c.Next()
	}
}

// OptionalAuth records the admin when a valid token is present and never
// rejects the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if claims, err := ValidateTokenClaims(db, c.GetHeader("Authorization")); err == nil {
				c.Set(ContextKeyAdminID, claims.AdminID)
			}
		}
		c.Next()
	}
}

// ValidateTokenClaims validates a bearer token and confirms the admin still exists.
func ValidateTokenClaims(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errTokenRequired
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return claims, nil
	}

	var count int64
	if err := db.Model(&models.AdminModel{}).Where("id = ?", claims.AdminID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errAdminGone
	}
	return claims, nil
}

// CurrentAdminID extracts the authenticated admin ID from context.
func CurrentAdminID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyAdminID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request carried a valid admin token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentAdminID(c) != ""
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
