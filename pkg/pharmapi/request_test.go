package pharmapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		want     string
	}{
		{
			name:     "clean join",
			base:     "http://api.test",
			endpoint: "auth/login",
			want:     "http://api.test/auth/login",
		},
		{
			name:     "single slashes on both sides",
			base:     "http://api.test/",
			endpoint: "/auth/login",
			want:     "http://api.test/auth/login",
		},
		{
			name:     "redundant slashes on both sides",
			base:     "http://api.test///",
			endpoint: "///auth/login",
			want:     "http://api.test/auth/login",
		},
		{
			name:     "base with path segment",
			base:     "http://api.test/api/",
			endpoint: "/inventory",
			want:     "http://api.test/api/inventory",
		},
		{
			name:     "empty endpoint",
			base:     "http://api.test",
			endpoint: "",
			want:     "http://api.test/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.endpoint))
		})
	}
}

func TestIsPublicEndpoint(t *testing.T) {
	assert.True(t, isPublicEndpoint("/auth/login"))
	assert.True(t, isPublicEndpoint("/auth/change-password"))
	assert.True(t, isPublicEndpoint("/api/v1/auth/login"), "suffix match")
	assert.False(t, isPublicEndpoint("/inventory"))
	assert.False(t, isPublicEndpoint("/auth/logout"))
	assert.False(t, isPublicEndpoint("/auth/refresh-token"))
}
