package internal

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Archive.Pattern != "**/*.md" {
		t.Errorf("pattern = %q", cfg.Archive.Pattern)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth should default to disabled")
	}
}

func TestHTTPConfigValidate(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		c := HTTPConfig{Port: port}
		if err := c.Validate(); err == nil {
			t.Errorf("port %d should be invalid", port)
		}
	}
	c := HTTPConfig{Port: 8080}
	if err := c.Validate(); err != nil {
		t.Errorf("port 8080: %v", err)
	}
	if c.Address() != ":8080" {
		t.Errorf("address = %q", c.Address())
	}
}

func TestArchiveConfigValidate(t *testing.T) {
	c := ArchiveConfig{Path: "./records"}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Pattern != "**/*.md" {
		t.Errorf("pattern not defaulted: %q", c.Pattern)
	}

	c = ArchiveConfig{}
	if err := c.Validate(); err == nil {
		t.Error("missing path should be invalid")
	}
}

func TestAuthConfigValidate(t *testing.T) {
	c := AuthConfig{}
	if err := c.Validate(); err != nil {
		t.Fatalf("empty auth config: %v", err)
	}
	if c.Mode != AuthModeDisabled {
		t.Errorf("mode not normalized: %q", c.Mode)
	}
	if c.AuthEnabled() {
		t.Error("disabled mode reports enabled")
	}

	c = AuthConfig{Mode: AuthModeToken}
	if err := c.Validate(); err == nil {
		t.Error("token mode without token should be invalid")
	}

	c = AuthConfig{Mode: AuthModeToken, Token: "secret"}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if !c.AuthEnabled() {
		t.Error("token mode reports disabled")
	}

	c = AuthConfig{Mode: "basic"}
	if err := c.Validate(); err == nil {
		t.Error("unknown mode should be invalid")
	}
}
