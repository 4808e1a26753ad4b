package auth

import "github.com/golang-jwt/jwt/v5"

const (
	// TokenTypeAccess marks tokens that may be used to call the API.
	TokenTypeAccess = "access"

	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Claims is the payload of an access token issued by the identity provider.
// user_id may be encoded as a JSON number or string; UserID holds its text form.
type Claims struct {
	RawUserID any    `json:"user_id"`
	TokenType string `json:"token_type,omitempty"`
	UserID    string `json:"-"`
	jwt.RegisteredClaims
}
