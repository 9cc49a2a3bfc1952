package middleware

import (
	"context"
	"net/http"
	"net/url"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const userContextKey = "user"

// LoginURL is where anonymous users are sent.
const LoginURL = "/auth/login"

// UserLookup resolves the identity carried by a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Authenticate identifies the acting user from the session token. A local
// session token is tried first, then a Firebase ID token when a verifier is
// configured. Requests without a valid token continue anonymously.
func Authenticate(sessions *Sessions, users UserLookup, firebase IDTokenVerifier, log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}
			ctx := c.Request().Context()

			if claims, err := sessions.Parse(token); err == nil {
				if user, err := users.GetUserByID(ctx, claims.UserID); err == nil {
					c.Set(userContextKey, user)
				}
				return next(c)
			}

			if firebase != nil {
				idToken, err := firebase.VerifyIDToken(ctx, token)
				if err != nil {
					log.WithError(err).Debug("rejected firebase id token")
					return next(c)
				}
				if user, err := users.GetUserByFirebaseUID(ctx, idToken.UID); err == nil {
					c.Set(userContextKey, user)
				}
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request().URL.RequestURI()))
			}
			return next(c)
		}
	}
}

// RequireAdmin only lets administrators through.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request().URL.RequestURI()))
			}
			if !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Administrator access required")
			}
			return next(c)
		}
	}
}
