package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID string
		wantOK bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with extra params", "https://youtube.com/watch?v=abc123&t=42s", "abc123", true},
		{"uppercase host", "https://WWW.YOUTUBE.COM/watch?v=abc", "abc", true},
		{"short link", "https://youtu.be/abc123", "abc123", true},
		{"short link with trailing segments", "https://youtu.be/abc123/extra", "abc123", true},
		{"short link www", "https://www.youtu.be/xyz", "xyz", true},
		{"shorts", "https://www.youtube.com/shorts/short1", "short1", true},
		{"embed", "https://youtube.com/embed/emb1?autoplay=1", "emb1", true},
		{"foreign host", "https://example.com/x", "", false},
		{"lookalike host", "https://youtube.com.evil.io/watch?v=abc", "", false},
		{"watch without v", "https://youtube.com/watch", "", false},
		{"watch with empty v", "https://youtube.com/watch?v=", "", false},
		{"watch trailing slash", "https://youtube.com/watch/?v=abc", "", false},
		{"short link without id", "https://youtu.be/", "", false},
		{"channel page", "https://www.youtube.com/@somechannel", "", false},
		{"shorts without id", "https://youtube.com/shorts/", "", false},
		{"userinfo before host", "https://attacker@youtube.com/watch?v=abc", "", false},
		{"userinfo before short host", "https://user:pw@youtu.be/abc", "", false},
		{"escaped slash kept in short link", "https://youtu.be/abc%2Fdef", "abc%2Fdef", true},
		{"escaped slash kept in shorts", "https://youtube.com/shorts/abc%2Fdef", "abc%2Fdef", true},
		{"no scheme", "youtube.com/watch?v=abc", "", false},
		{"garbage", "::not a url::", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestNewULID(t *testing.T) {
	a := NewULID()
	b := NewULID()
	assert.True(t, IsULID(a))
	assert.True(t, IsULID(b))
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
	assert.False(t, IsULID("not-a-ulid"))
}
