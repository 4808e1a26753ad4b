package handler

import (
	"time"

	"quiz-tube/internal/domain/auth"
	"quiz-tube/internal/dto"
	"quiz-tube/internal/logger"
	"quiz-tube/internal/middleware"
	"quiz-tube/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RefreshTokenPath is the cookie path the identity provider uses for the refresh token.
const RefreshTokenPath = "/api/token/refresh/"

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Logout handles user logout.
// @Summary Logout user
// @Description Blacklists the presented access token until it expires and clears the auth cookies.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.LogoutResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if err := h.authService.RevokeToken(c.UserContext(), claims); err != nil {
		return err
	}
	logger.Get().Info("User logged out", zap.String("userID", middleware.UserID(c)))

	expireCookie(c, auth.AccessTokenCookie, "/")
	expireCookie(c, auth.RefreshTokenCookie, RefreshTokenPath)

	return c.Status(fiber.StatusOK).JSON(dto.LogoutResponse{
		Detail: "Log-Out successfully! All Tokens will be deleted. Refresh token is now invalid.",
	})
}

func expireCookie(c *fiber.Ctx, name, path string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
	})
}
