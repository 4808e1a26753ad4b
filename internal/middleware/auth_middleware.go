package middleware

import (
	"strings"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/domain/auth"
	"quiz-tube/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
	ClaimsKey           = "claims"
)

// Protected requires a valid access token, read from the access_token cookie
// or an Authorization: Bearer header, and stores the caller's id and claims
// in the request locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(auth.AccessTokenCookie)
		if tokenString == "" {
			authHeader := c.Get(AuthorizationHeader)
			if strings.HasPrefix(authHeader, BearerSchema) {
				tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
			}
		}
		if tokenString == "" {
			return domain.NewUnauthorizedError("Authentication credentials were not provided.", nil)
		}

		claims, err := authService.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			return err
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// UserID returns the id stored by Protected, or "" outside protected routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// Claims returns the claims stored by Protected, or nil outside protected routes.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsKey).(*auth.Claims)
	return claims
}
