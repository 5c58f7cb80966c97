package ws

import (
	"net/http/httptest"
	"testing"
)

func TestSameOriginAgainstConfiguredOrigin(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"exact match", "https://artivora.example.com", true},
		{"case insensitive", "HTTPS://Artivora.Example.Com", true},
		{"other site", "https://evil.example.com", false},
		{"scheme mismatch", "http://artivora.example.com", false},
		{"missing origin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws/assets", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOrigin(r, "https://artivora.example.com"); got != tt.want {
				t.Fatalf("SameOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestSameOriginFallsBackToRequestHost(t *testing.T) {
	r := httptest.NewRequest("GET", "http://app.local:8080/ws/assets", nil)
	r.Header.Set("Origin", "http://app.local:8080")
	if !SameOrigin(r, "") {
		t.Fatal("origin matching the request host should pass")
	}

	r.Header.Set("Origin", "http://elsewhere:9090")
	if SameOrigin(r, "") {
		t.Fatal("origin with a different host should fail")
	}

	r.Header.Set("Origin", "://bad url")
	if SameOrigin(r, "") {
		t.Fatal("unparseable origin should fail")
	}
}
