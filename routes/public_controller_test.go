package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "203.0.113.7:54321", "203.0.113.7"},
		{"ipv6 with port", "[::1]:54321", "::1"},
		{"ipv6 full with port", "[2001:db8::1]:8080", "2001:db8::1"},
		{"no port passes through", "203.0.113.7", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientIP(tt.remoteAddr))
		})
	}
}
