package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	TokenIssuer    string
}

// JWTService issues and validates teacher tokens
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// TeacherClaims carries the teacher and school a teacher-view request acts for.
// SchoolID is nil for a teacher not assigned to any school.
type TeacherClaims struct {
	TeacherID int64  `json:"teacherId"`
	SchoolID  *int64 `json:"schoolId,omitempty"`
	jwt.RegisteredClaims
}

// GenerateTeacherToken signs a token for the given teacher
func (s *JWTService) GenerateTeacherToken(teacherID int64, schoolID *int64) (token string, expiresIn int, err error) {
	now := time.Now()
	claims := &TeacherClaims{
		TeacherID: teacherID,
		SchoolID:  schoolID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   fmt.Sprintf("%d", teacherID),
			ID:        uuid.New().String(),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create teacher token: %w", err)
	}

	return token, int(s.config.AccessTokenExp.Seconds()), nil
}

// ValidateTeacherToken parses and validates a teacher token
func (s *JWTService) ValidateTeacherToken(tokenString string) (*TeacherClaims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &TeacherClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.TokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*TeacherClaims)
	if !ok || !token.Valid || claims.TeacherID <= 0 {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	if authHeader == "" {
		return "", apperrors.ErrTokenInvalid
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), nil
	}

	// raw JWT without the scheme
	if strings.Count(authHeader, ".") == 2 {
		return authHeader, nil
	}

	return "", apperrors.ErrTokenInvalid
}

// TeacherScope is the teacher and school a teacher-view request acts for
type TeacherScope struct {
	TeacherID int64
	SchoolID  *int64
}

// Scope returns the request scope carried by the claims
func (c *TeacherClaims) Scope() *TeacherScope {
	return &TeacherScope{TeacherID: c.TeacherID, SchoolID: c.SchoolID}
}
