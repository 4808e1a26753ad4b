package cache

import "strings"

const (
	GlobalKeyPrefix = "quiztube"

	// AuthService and BlacklistObject name the revoked-token keys.
	AuthService     = "auth"
	BlacklistObject = "blacklist"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// BlacklistKey is the key under which a revoked token id is stored.
func BlacklistKey(tokenID string) string {
	return GenerateCacheKey(AuthService, BlacklistObject, tokenID)
}
