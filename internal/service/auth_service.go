package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eapmetrics/internal/config"
	"eapmetrics/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles HR administrator authentication
type AuthService struct {
	adminUsername     string
	adminPasswordHash []byte
	adminPassword     string
	companyID         string
	jwtSecret         []byte
	tokenTTL          time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: []byte(cfg.AdminPasswordHash),
		adminPassword:     cfg.AdminPassword,
		companyID:         cfg.AdminCompanyID,
		jwtSecret:         []byte(cfg.JWTSecret),
		tokenTTL:          cfg.TokenTTL,
	}
}

// Login validates credentials and returns a signed admin token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.adminUsername || !s.checkPassword(password) {
		return nil, ErrInvalidCredentials
	}

	adminID := "admin_" + uuid.New().String()[:8]
	now := time.Now()

	claims := &model.AdminClaims{
		AdminID:   adminID,
		CompanyID: s.companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:   tokenString,
		AdminID: adminID,
	}, nil
}

// checkPassword prefers the bcrypt hash; the plain password is only used
// when no hash is configured
func (s *AuthService) checkPassword(password string) bool {
	if len(s.adminPasswordHash) > 0 {
		return bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(password)) == nil
	}
	if s.adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
