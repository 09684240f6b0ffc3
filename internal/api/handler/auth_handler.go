package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/api/metrics"
	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	accounts ports.AccountService
	sessions ports.SessionIssuer
	cookie   CookieConfig
	log      zerolog.Logger
}

func NewAuthHandler(accounts ports.AccountService, sessions ports.SessionIssuer, cookie CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, cookie: cookie, log: log}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50,username"`
	Email     string `json:"email" validate:"required,simpleemail"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type profileRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"required,simpleemail"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type authResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	User    *domain.UserProfile `json:"user,omitempty"`
}

type sessionResponse struct {
	Success         bool                `json:"success"`
	IsAuthenticated bool                `json:"isAuthenticated"`
	Message         string              `json:"message,omitempty"`
	User            *domain.UserProfile `json:"user,omitempty"`
}

type availabilityResponse struct {
	Success   bool   `json:"success"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Register creates an account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.ResultFailure).Inc()
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	if err := h.startSession(c, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Success: true, Message: "Registration successful", User: user.Profile()})
}

// Login authenticates by username or email and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.ResultFailure).Inc()
		return err
	}

	user, err := h.accounts.Authenticate(c.Request().Context(), req.UsernameOrEmail, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		h.log.Info().Err(err).Str("login", req.UsernameOrEmail).Msg("login rejected")
		return err
	}

	if err := h.startSession(c, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, Message: "Login successful", User: user.Profile()})
}

// Logout revokes the current session, if any, and expires the cookie. It
// always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid := ctxSessionID(c); sid != "" {
		if err := h.sessions.Revoke(c.Request().Context(), sid); err != nil {
			h.log.Warn().Err(err).Str("session_id", sid).Msg("failed to revoke session")
		} else {
			metrics.SessionsRevokedTotal.Inc()
		}
	}
	c.SetCookie(h.expiredCookie())
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logout successful"})
}

// Me reports the session user. Anonymous callers get 200 with
// isAuthenticated=false.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := ctxUser(c)
	if user == nil {
		return c.JSON(http.StatusOK, sessionResponse{Success: false, Message: "Not authenticated"})
	}
	return c.JSON(http.StatusOK, sessionResponse{Success: true, IsAuthenticated: true, User: user.Profile()})
}

// UpdateProfile replaces the editable profile fields of the session user.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), userID, ports.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, Message: "Profile updated successfully", User: user.Profile()})
}

// ChangePassword verifies the current password and stores the new one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Passwords"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password changed successfully"})
}

// CheckUsername reports whether a username is still free.
//
// @Summary      Username availability
// @Tags         auth
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  availabilityResponse
// @Router       /auth/check-username/{username} [get]
func (h *AuthHandler) CheckUsername(c echo.Context) error {
	username := pathParam(c, "username")
	ok, err := h.accounts.UsernameAvailable(c.Request().Context(), username)
	if err != nil {
		return err
	}
	metrics.AvailabilityChecksTotal.WithLabelValues("username", strconv.FormatBool(ok)).Inc()

	msg := "Username is available"
	if !ok {
		msg = "Username already exists"
	}
	return c.JSON(http.StatusOK, availabilityResponse{Success: true, Available: ok, Message: msg})
}

// CheckEmail reports whether an email address is still free.
//
// @Summary      Email availability
// @Tags         auth
// @Produce      json
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  availabilityResponse
// @Router       /auth/check-email/{email} [get]
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	email := pathParam(c, "email")
	ok, err := h.accounts.EmailAvailable(c.Request().Context(), email)
	if err != nil {
		return err
	}
	metrics.AvailabilityChecksTotal.WithLabelValues("email", strconv.FormatBool(ok)).Inc()

	msg := "Email is available"
	if !ok {
		msg = "Email already exists"
	}
	return c.JSON(http.StatusOK, availabilityResponse{Success: true, Available: ok, Message: msg})
}

func (h *AuthHandler) startSession(c echo.Context, userID string) error {
	token, err := h.sessions.Issue(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		Expires:  time.Now().Add(h.cookie.TTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// pathParam returns the unescaped path parameter.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
