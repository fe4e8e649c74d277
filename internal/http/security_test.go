package http

import (
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct", "203.0.113.9:1234", "", "203.0.113.9"},
		{"trusted proxy honors forwarded", "10.1.2.3:1234", "203.0.113.9", "203.0.113.9"},
		{"untrusted peer ignores forwarded", "203.0.113.9:1234", "198.51.100.1", "203.0.113.9"},
		{"garbage forwarded falls back", "10.1.2.3:1234", "not-an-ip", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/chart", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(r, nil); got != tt.want {
				t.Errorf("extractClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		agent  string
		want   bool
	}{
		{"normal api call", "/api/v1/simulate", "Mozilla/5.0", false},
		{"curl is fine", "/api/v1/analyze", "curl/8.0", false},
		{"path traversal", "/api/v1/../../etc/passwd", "Mozilla/5.0", true},
		{"injection in query", "/api/v1/chart?userId=1%20union%20select", "Mozilla/5.0", true},
		{"scanner agent", "/api/v1/chart", "sqlmap/1.7", true},
		{"env probe", "/.env", "Mozilla/5.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			r.Header.Set("User-Agent", tt.agent)
			if got := detectSuspiciousRequest(r, nil); got != tt.want {
				t.Errorf("detectSuspiciousRequest = %v, want %v", got, tt.want)
			}
		})
	}
}
