package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-tube/internal/cache"
	"quiz-tube/internal/domain"
	"quiz-tube/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// revokedFallbackTTL applies to tokens that carry no expiry.
const revokedFallbackTTL = 24 * time.Hour

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService validates access tokens issued by the identity provider and
// revokes them on logout.
type AuthService interface {
	ValidateJWT(ctx context.Context, tokenString string) (*auth.Claims, error)
	RevokeToken(ctx context.Context, claims *auth.Claims) error
}

type authServiceImpl struct {
	secret []byte
	cache  domain.Cache
	logger *zap.Logger
}

// NewAuthService creates a new instance of AuthService. cache may be nil, in
// which case revocation is unavailable.
func NewAuthService(secretKey string, cache domain.Cache, logger *zap.Logger) (AuthService, error) {
	if secretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authServiceImpl{secret: []byte(secretKey), cache: cache, logger: logger}, nil
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithJSONNumber())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Warn("JWT token expired", zap.String("token_snippet", snippet(tokenString)))
		} else {
			s.logger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		}
		return nil, domain.NewUnauthorizedError("Given token not valid for any token type", fmt.Errorf("%w: %w", ErrInvalidJWTToken, err))
	}
	if !token.Valid {
		return nil, domain.NewUnauthorizedError("Given token not valid for any token type", ErrInvalidJWTToken)
	}

	if claims.TokenType != "" && claims.TokenType != auth.TokenTypeAccess {
		return nil, domain.NewUnauthorizedError("Token has wrong type", ErrInvalidJWTToken)
	}
	if claims.RawUserID == nil {
		return nil, domain.NewUnauthorizedError("Token contained no recognizable user identification", ErrInvalidJWTToken)
	}
	claims.UserID = fmt.Sprint(claims.RawUserID)

	if claims.ID != "" && s.cache != nil {
		revoked, err := s.cache.Exists(ctx, cache.BlacklistKey(claims.ID))
		if err != nil {
			s.logger.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
			return nil, domain.NewInternalError("Failed to verify token.", err)
		}
		if revoked {
			return nil, domain.NewUnauthorizedError("Token is blacklisted", ErrInvalidJWTToken)
		}
	}
	return claims, nil
}

// RevokeToken blacklists the token's jti until the token would expire anyway.
func (s *authServiceImpl) RevokeToken(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if s.cache == nil {
		s.logger.Warn("Token revocation skipped, no cache configured", zap.String("jti", claims.ID))
		return nil
	}

	ttl := revokedFallbackTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			return nil
		}
	}
	if err := s.cache.Set(ctx, cache.BlacklistKey(claims.ID), claims.UserID, ttl); err != nil {
		s.logger.Error("Failed to blacklist token", zap.String("jti", claims.ID), zap.Error(err))
		return domain.NewInternalError("Failed to revoke token.", err)
	}
	s.logger.Info("Token revoked", zap.String("jti", claims.ID), zap.String("user_id", claims.UserID), zap.Duration("ttl", ttl))
	return nil
}

func snippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}
