package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleUser = "USER"

// Result keys returned by login and refresh.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Verification failures. Callers map these onto the access- or refresh-token
// error of the request they are handling.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the decoded, validated content of one of our tokens.
type Claims struct {
	Email     string
	Role      string
	UserID    uint
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256-signed bearer tokens. Access tokens
// are short-lived and carry subject, role and user id; refresh tokens carry
// only the subject and live for weeks.
type TokenService struct {
	secret          []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	rotateBelowDays int
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret:          []byte(secret),
		accessTTL:       30 * time.Minute,
		refreshTTL:      8 * 7 * 24 * time.Hour,
		rotateBelowDays: 30,
	}
}

func (s *TokenService) CreateAccessToken(email, role string, userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"id":   userID,
		"exp":  time.Now().Add(s.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) CreateRefreshToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(s.refreshTTL).Unix(),
		// Distinguishes tokens issued within the same second, so rotation
		// always supersedes the stored value.
		"jti": uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry. Expired tokens come back as
// ErrTokenExpired, everything else wrong with the token as ErrTokenInvalid.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Email = sub
	} else {
		return nil, ErrTokenInvalid
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if id, ok := mapClaims["id"].(float64); ok {
		claims.UserID = uint(id)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}

// RemainingDays reports whole days until the token expires.
func (s *TokenService) RemainingDays(claims *Claims) int {
	return int(time.Until(claims.ExpiresAt).Hours() / 24)
}

// ShouldRotate reports whether a refresh token is close enough to expiry that
// the refresh flow must issue a replacement.
func (s *TokenService) ShouldRotate(claims *Claims) bool {
	return s.RemainingDays(claims) < s.rotateBelowDays
}
