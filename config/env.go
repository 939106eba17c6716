package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultEnv        = "dev"
	defaultBaseURL    = "http://localhost:3000"
	defaultAPIBaseURL = "http://localhost:3000/api"
	defaultRegion     = "us"
	defaultTimeoutMS  = "30000"
	defaultPort       = "3000"
	defaultJWTSecret  = "change-me-in-production"
	defaultLogLevel   = ""
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json, .env and the environment overlay .env.<ENV>
// from the working directory. Later files win; real process variables win
// over every file.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env", ".env."+envName())
	})
	return loadErr
}

// Reset forgets everything Load read so the next call re-reads the files.
func Reset() {
	mu.Lock()
	values = defaultValues()
	mu.Unlock()
	loadOnce = sync.Once{}
	loadErr = nil
}

func envName() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return strings.ToLower(v)
	}
	return defaultEnv
}

func defaultValues() map[string]string {
	return map[string]string{
		"ENV":                     defaultEnv,
		"BASE_URL":                defaultBaseURL,
		"API_BASE_URL":            defaultAPIBaseURL,
		"DEFAULT_REGION":          defaultRegion,
		"REGION":                  "",
		"TIMEOUT":                 defaultTimeoutMS,
		"HEADLESS":                "",
		"PORT":                    defaultPort,
		"JWT_SECRET":              defaultJWTSecret,
		"LOG_LEVEL":               defaultLogLevel,
		"CI":                      "",
		"BROWSERSTACK_USERNAME":   "",
		"BROWSERSTACK_ACCESS_KEY": "",
	}
}

// Env returns the deployment environment name (dev, staging, prod).
func Env() string {
	_ = Load()
	return strings.ToLower(get("ENV", defaultEnv))
}

func BaseURL() string {
	_ = Load()
	return get("BASE_URL", defaultBaseURL)
}

func APIBaseURL() string {
	_ = Load()
	return get("API_BASE_URL", defaultAPIBaseURL)
}

// DefaultRegion is DEFAULT_REGION, falling back to "us".
func DefaultRegion() string {
	_ = Load()
	return get("DEFAULT_REGION", defaultRegion)
}

// Region returns REGION, then DEFAULT_REGION, then "us". It is read live on
// every call.
func Region() string {
	_ = Load()
	if r := get("REGION", ""); r != "" {
		return r
	}
	return get("DEFAULT_REGION", defaultRegion)
}

// Timeout is TIMEOUT in milliseconds (default 30s).
func Timeout() time.Duration {
	_ = Load()
	return parseTimeout(get("TIMEOUT", defaultTimeoutMS))
}

// Headless is true only when HEADLESS is exactly "true".
func Headless() bool {
	_ = Load()
	return get("HEADLESS", "") == "true"
}

func Port() string {
	_ = Load()
	return get("PORT", defaultPort)
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

func LogLevel() string {
	_ = Load()
	return strings.ToLower(get("LOG_LEVEL", defaultLogLevel))
}

// IsCI reports whether CI is set to anything non-empty.
func IsCI() bool {
	_ = Load()
	return get("CI", "") != ""
}

func parseTimeout(raw string) time.Duration {
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || ms <= 0 {
		ms, _ = strconv.Atoi(defaultTimeoutMS)
	}
	return time.Duration(ms) * time.Millisecond
}

func loadFromFiles(configPath string, envPaths ...string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	for _, p := range envPaths {
		if err := mergeDotEnv(p, loaded); err != nil {
			if !os.IsNotExist(err) {
				return err
			}
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case bool:
			s = strconv.FormatBool(v)
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// get prefers the process environment, then the merged files.
func get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
