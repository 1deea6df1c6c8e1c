package stub

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/domain"
)

const refreshCookieName = "refresh_token"

// AuthHandler exposes the customer auth endpoints.
type AuthHandler struct {
	store      *Store
	tokens     *TokenManager
	bcryptCost int
	refreshTTL time.Duration
	logger     *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(store *Store, tokens *TokenManager, bcryptCost int, refreshTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, bcryptCost: bcryptCost, refreshTTL: refreshTTL, logger: logger}
}

type credentialsRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func userJSON(account *Account) domain.User {
	return domain.User{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	hash, err := HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		return err
	}
	var firstName, lastName *string
	if req.FirstName != "" {
		firstName = &req.FirstName
	}
	if req.LastName != "" {
		lastName = &req.LastName
	}

	account, err := h.store.CreateUser(req.Email, hash, firstName, lastName)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.establishSession(c, account, http.StatusCreated)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account, ok := h.store.UserByEmail(req.Email)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "invalid email or password")
	}
	if err := ComparePassword(account.PasswordHash, req.Password); err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid email or password")
	}
	return h.establishSession(c, account, http.StatusOK)
}

// establishSession mints tokens, sets the refresh cookie, and adopts any
// guest cart the request identified itself with.
func (h *AuthHandler) establishSession(c *fiber.Ctx, account *Account, status int) error {
	accessToken, _, err := h.tokens.GenerateToken(strconv.Itoa(account.ID), SubjectCustomer, "")
	if err != nil {
		return err
	}
	refreshToken := h.store.IssueRefreshToken(account.ID, h.refreshTTL)

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Expires:  time.Now().Add(h.refreshTTL),
		HTTPOnly: true,
		Path:     "/",
	})

	if guestID := c.Get(GuestSessionHeader); guestID != "" {
		h.store.AdoptGuestCart(guestID, account.ID)
	}

	return c.Status(status).JSON(fiber.Map{
		"success":     true,
		"user":        userJSON(account),
		"accessToken": accessToken,
	})
}

// Refresh handles POST /auth/refresh using only the cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	cookie := c.Cookies(refreshCookieName)
	if cookie == "" {
		return fiber.NewError(http.StatusUnauthorized, "no refresh token")
	}
	userID, ok := h.store.RedeemRefreshToken(cookie)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "refresh token invalid or expired")
	}
	account, ok := h.store.UserByID(userID)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "user not found")
	}

	accessToken, _, err := h.tokens.GenerateToken(strconv.Itoa(account.ID), SubjectCustomer, "")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"accessToken": accessToken,
	})
}

// Logout handles POST /auth/logout: revokes the refresh token and clears
// the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if cookie := c.Cookies(refreshCookieName); cookie != "" {
		h.store.RevokeRefreshToken(cookie)
	}
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"success": true})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    userJSON(principal.User),
	})
}

// ForgotPassword handles POST /auth/forgot-password. The token is only
// logged; the stub sends no mail.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if _, ok := h.store.UserByEmail(req.Email); ok {
		token := h.store.IssueResetToken(req.Email)
		h.logger.Info("password reset requested", zap.String("email", req.Email), zap.String("token", token))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the email exists, a reset link has been sent",
	})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and newPassword required")
	}
	hash, err := HashPassword(req.NewPassword, h.bcryptCost)
	if err != nil {
		return err
	}
	if !h.store.RedeemResetToken(req.Token, hash) {
		return fiber.NewError(http.StatusBadRequest, "invalid or expired reset token")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password updated"})
}
