package goGuard

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
	if cfg.RateLimit.Threshold != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Listing.SelfIncludesRevoked || !cfg.Listing.AdminIncludesRevoked {
		t.Fatalf("unexpected listing defaults: %+v", cfg.Listing)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty scope":        func(c *Config) { c.RateLimit.Scope = "" },
		"zero threshold":     func(c *Config) { c.RateLimit.Threshold = 0 },
		"negative threshold": func(c *Config) { c.RateLimit.Threshold = -5 },
		"zero window":        func(c *Config) { c.RateLimit.Window = 0 },
		"zero session TTL":   func(c *Config) { c.Session.TTL = 0 },
		"bad resolver mode":  func(c *Config) { c.Resolver.Mode = CredentialMode(99) },
		"jwt without key":    func(c *Config) { c.Resolver.Mode = CredentialJWT },
		"jwt short key": func(c *Config) {
			c.Resolver.Mode = CredentialJWT
			c.Resolver.HMACKey = []byte("too-short")
		},
	}

	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestCloneConfigCopiesHMACKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolver.Mode = CredentialJWT
	cfg.Resolver.HMACKey = []byte("0123456789abcdef0123456789abcdef")

	clone := cloneConfig(cfg)
	clone.Resolver.HMACKey[0] = 'X'

	if cfg.Resolver.HMACKey[0] == 'X' {
		t.Fatal("clone must not share the HMAC key backing array")
	}
}
