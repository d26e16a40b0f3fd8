package fetch

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNewSessionDefaults(t *testing.T) {
	session := NewSession()
	defer session.Close()

	if session.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want %q", session.userAgent, DefaultUserAgent)
	}
	if session.maxRedirects != DefaultMaxRedirects {
		t.Errorf("maxRedirects = %d, want %d", session.maxRedirects, DefaultMaxRedirects)
	}
	if session.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want %d", session.maxSize, DefaultMaxSize)
	}
	if session.client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", session.client.Timeout, DefaultTimeout)
	}
	if session.memory == nil {
		t.Error("memory probe should default to AvailableMemory")
	}
	if session.client.CheckRedirect == nil {
		t.Fatal("CheckRedirect should be set")
	}
	if err := session.client.CheckRedirect(nil, nil); err != http.ErrUseLastResponse {
		t.Errorf("CheckRedirect() = %v, want http.ErrUseLastResponse", err)
	}
}

func TestSessionOptionsIgnoreInvalidValues(t *testing.T) {
	session := NewSession(
		WithUserAgent(""),
		WithMaxRedirects(-1),
		WithMaxSize(0),
		WithLogger(nil),
		WithHTTPClient(nil),
	)

	if session.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want default", session.userAgent)
	}
	if session.maxRedirects != DefaultMaxRedirects {
		t.Errorf("maxRedirects = %d, want default", session.maxRedirects)
	}
	if session.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want default", session.maxSize)
	}
	if session.logger == nil {
		t.Error("logger should fall back to no-op")
	}
	if session.client == nil {
		t.Error("client should fall back to default")
	}
}

func TestWithHTTPClientDoesNotMutateCaller(t *testing.T) {
	original := &http.Client{Timeout: 7 * time.Second}
	session := NewSession(WithHTTPClient(original))

	if original.CheckRedirect != nil {
		t.Error("caller's client should not be modified")
	}
	if session.client == original {
		t.Error("session should hold a copy of the client")
	}
	if session.client.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", session.client.Timeout)
	}
}

func TestAvailableMemory(t *testing.T) {
	available, err := AvailableMemory(context.Background())
	if err != nil {
		t.Skipf("virtual memory not available on this platform: %v", err)
	}
	if available == 0 {
		t.Error("available memory should be non-zero")
	}
}
