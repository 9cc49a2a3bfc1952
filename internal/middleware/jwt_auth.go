package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionCookie carries the signed session token for browser clients.
const SessionCookie = "sessionid"

const defaultJWTSecret = "supersecretjwtkey"

// Sessions issues and parses the HS256 tokens identifying a logged in user.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions creates a token issuer. An empty secret falls back to a
// development-only default.
func NewSessions(secret string, ttl time.Duration) *Sessions {
	if secret == "" {
		secret = defaultJWTSecret
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for user.
func (s *Sessions) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates a token and returns its claims.
func (s *Sessions) Parse(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Login sets the session cookie for user and returns the token.
func (s *Sessions) Login(c echo.Context, user *models.User) (string, error) {
	token, err := s.Issue(user)
	if err != nil {
		return "", err
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// Logout clears the session cookie.
func (s *Sessions) Logout(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// bearerToken extracts a token from "Authorization: Bearer <token>" or the
// session cookie, in that order.
func bearerToken(c echo.Context) string {
	if header := c.Request().Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
