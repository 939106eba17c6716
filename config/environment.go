package config

import (
	"strings"
	"time"
)

// Environment is an immutable snapshot of the suite configuration. Code that
// needs configuration should take one of these instead of reading the
// package getters, so tests can build arbitrary values with FromMap.
type Environment struct {
	Name       string
	BaseURL    string
	APIBaseURL string

	// RegionOverride is REGION, FallbackRegion is DEFAULT_REGION.
	RegionOverride string
	FallbackRegion string

	Timeout  time.Duration
	Headless bool
	Port     string

	JWTSecret string
	LogLevel  string
	CI        bool

	BrowserStackUsername  string
	BrowserStackAccessKey string
}

// DefaultRegion returns the effective region: REGION, then DEFAULT_REGION,
// then "us".
func (e Environment) DefaultRegion() string {
	if e.RegionOverride != "" {
		return e.RegionOverride
	}
	if e.FallbackRegion != "" {
		return e.FallbackRegion
	}
	return defaultRegion
}

// Current snapshots the loaded files and the process environment.
func Current() Environment {
	_ = Load()
	return build(get)
}

// FromMap builds an Environment from explicit values only. Missing keys take
// their defaults; the process environment is not consulted.
func FromMap(m map[string]string) Environment {
	return build(func(key, fallback string) string {
		if v := strings.TrimSpace(m[key]); v != "" {
			return v
		}
		return fallback
	})
}

func build(lookup func(key, fallback string) string) Environment {
	return Environment{
		Name:                  strings.ToLower(lookup("ENV", defaultEnv)),
		BaseURL:               lookup("BASE_URL", defaultBaseURL),
		APIBaseURL:            lookup("API_BASE_URL", defaultAPIBaseURL),
		RegionOverride:        lookup("REGION", ""),
		FallbackRegion:        lookup("DEFAULT_REGION", defaultRegion),
		Timeout:               parseTimeout(lookup("TIMEOUT", defaultTimeoutMS)),
		Headless:              lookup("HEADLESS", "") == "true",
		Port:                  lookup("PORT", defaultPort),
		JWTSecret:             lookup("JWT_SECRET", defaultJWTSecret),
		LogLevel:              strings.ToLower(lookup("LOG_LEVEL", defaultLogLevel)),
		CI:                    lookup("CI", "") != "",
		BrowserStackUsername:  lookup("BROWSERSTACK_USERNAME", ""),
		BrowserStackAccessKey: lookup("BROWSERSTACK_ACCESS_KEY", ""),
	}
}
