package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken   = "A user with that username already exists."
	msgBadCredentials  = "Please enter a correct username and password."
	nonFieldErrorsName = "__all__"
)

var usernameUnsafe = regexp.MustCompile(`[^\w.@+-]`)

// AuthHandler handles local signup/login and Firebase token exchange
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       *middleware.Sessions
	firebaseAuth   middleware.IDTokenVerifier
	log            *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil when
// Firebase is not configured.
func NewAuthHandler(userRepo repositories.UserRepository, sessions *middleware.Sessions, firebaseAuth middleware.IDTokenVerifier, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		firebaseAuth:   firebaseAuth,
		log:            log,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/signup", h.SignupForm)
	g.POST("/signup", h.Signup)
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login)
	g.GET("/logout", h.Logout)
	g.POST("/logout", h.Logout)
	g.POST("/firebase-login", h.FirebaseLogin)
}

func (h *AuthHandler) SignupForm(c echo.Context) error {
	return renderForm(c, http.StatusOK, models.SignupRequest{}, nil, nil)
}

// Signup registers a local account, logs it in and redirects home.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	errs, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	password := req.Password
	req.Password = ""
	if len(errs) > 0 {
		return renderForm(c, http.StatusOK, req, errs, nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return renderForm(c, http.StatusOK, req, validators.FieldErrors{"username": msgUsernameTaken}, nil)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	user := &models.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return renderForm(c, http.StatusOK, req, validators.FieldErrors{"username": msgUsernameTaken}, nil)
		}
		return err
	}

	if _, err := h.sessions.Login(c, user); err != nil {
		return errors.Wrap(err, "issue session")
	}
	h.log.WithField("username", user.Username).Info("user signed up")
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return renderForm(c, http.StatusOK, models.LoginRequest{}, nil, echo.Map{"next": c.QueryParam("next")})
}

// Login checks the credentials and redirects to the "next" page.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	errs, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	password := req.Password
	req.Password = ""
	next := c.QueryParam("next")
	if next == "" {
		next = c.FormValue("next")
	}
	if len(errs) > 0 {
		return renderForm(c, http.StatusOK, req, errs, echo.Map{"next": next})
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if user == nil || user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return renderForm(c, http.StatusUnauthorized, req,
			validators.FieldErrors{nonFieldErrorsName: msgBadCredentials}, echo.Map{"next": next})
	}

	if _, err := h.sessions.Login(c, user); err != nil {
		return errors.Wrap(err, "issue session")
	}
	return c.Redirect(http.StatusFound, safeNext(next, "/"))
}

// Logout drops the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c)
	return renderData(c, echo.Map{"message": "You have been logged out."})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" form:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local session.
// Unknown Firebase accounts are registered on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	var req FirebaseLoginRequest
	errs, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return renderForm(c, http.StatusOK, req, errs, nil)
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		h.log.WithError(err).Debug("firebase id token rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		uid := token.UID
		user = &models.User{Name: name, Email: email, FirebaseUID: &uid}
		if err := h.createWithFreeUsername(c, user, usernameFor(email, uid)); err != nil {
			return err
		}
		h.log.WithField("username", user.Username).Info("registered firebase user")
	case err != nil:
		return err
	default:
		if email != "" {
			user.Email = email
		}
		if name != "" {
			user.Name = name
		}
		if err := h.userRepository.UpdateUser(ctx, user); err != nil {
			return err
		}
	}

	localJWT, err := h.sessions.Login(c, user)
	if err != nil {
		return errors.Wrap(err, "issue session")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": localJWT, "user": user.ToCompact()})
}

// createWithFreeUsername stores user under base, adding a numeric suffix
// while the username is taken or reserved.
func (h *AuthHandler) createWithFreeUsername(c echo.Context, user *models.User, base string) error {
	ctx := c.Request().Context()
	candidate := base
	for i := 1; i <= 20; i++ {
		if !validators.IsReservedUsername(candidate) {
			_, err := h.userRepository.GetUserByUsername(ctx, candidate)
			if errors.Is(err, repositories.ErrNotFound) {
				user.Username = candidate
				return h.userRepository.CreateUser(ctx, user)
			}
			if err != nil {
				return err
			}
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return errors.Errorf("no free username for %q", base)
}

// usernameFor derives a username from the email local part, falling back to
// the Firebase UID.
func usernameFor(email, uid string) string {
	base := uid
	if at := strings.IndexByte(email, '@'); at > 0 {
		base = email[:at]
	}
	base = usernameUnsafe.ReplaceAllString(base, "")
	if len(base) > 140 {
		base = base[:140]
	}
	if len(base) < 3 {
		base = "user-" + base
	}
	return base
}
