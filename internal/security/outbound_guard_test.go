package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewOutboundClient_Timeout(t *testing.T) {
	client := NewOutboundClient(5 * time.Second)
	if client == nil {
		t.Fatal("NewOutboundClient() returned nil")
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("expected timeout %v, got %v", 5*time.Second, client.Timeout)
	}
}

// タイムアウト0はタイムアウトなしとして扱われる
func TestNewOutboundClient_ZeroTimeout(t *testing.T) {
	client := NewOutboundClient(0)
	if client.Timeout != 0 {
		t.Errorf("expected no timeout, got %v", client.Timeout)
	}
}

func TestNewOutboundClient_HasCustomTransport(t *testing.T) {
	client := NewOutboundClient(time.Second)
	if client.Transport == nil || client.Transport == http.DefaultTransport {
		t.Fatal("expected custom Transport")
	}
}

// httptestサーバーはループバックのhttpで起動するため拒否される。
func TestNewOutboundClient_BlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewOutboundClient(5 * time.Second)
	if _, err := client.Get(ts.URL); err == nil {
		t.Fatal("expected error for loopback address request, got nil")
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"opencage default", "https://api.opencagedata.com/geocode/v1/json", false},
		{"explicit 443", "https://geocoder.example.com:443/v1/json", false},
		{"public ip", "https://8.8.8.8/json", false},
		{"empty", "", true},
		{"http scheme", "http://api.opencagedata.com/geocode/v1/json", true},
		{"ftp scheme", "ftp://example.com/", true},
		{"no host", "https:///json", true},
		{"other port", "https://api.opencagedata.com:8443/json", true},
		{"localhost", "https://localhost/json", true},
		{"loopback", "https://127.0.0.1/json", true},
		{"private", "https://10.1.2.3/json", true},
		{"metadata", "https://169.254.169.254/latest", true},
		{"ipv6 loopback", "https://[::1]/json", true},
		{"invalid", "://bad", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEndpoint(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
