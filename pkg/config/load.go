package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every structured environment override.
const EnvPrefix = "SERVICE_MANAGER_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	normalizeBackends(&cfg.Backends)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides is the loader used by the gateway binary.
//
// The loading sequence is:
//  1. Load a .env file next to the config file and in the working directory, if present
//  2. Start from defaults
//  3. Decode the YAML file on top, if it exists (a missing file is not an error)
//  4. Apply environment variable overrides
//  5. Validate the final configuration
//
// Environment variables always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	if err := loadDotEnv(path); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		err := decodeFile(path, cfg)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)
	normalizeBackends(&cfg.Backends)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return nil
}

// loadDotEnv loads .env files without overriding variables that are already
// set in the process environment.
func loadDotEnv(configPath string) error {
	candidates := []string{".env"}
	if configPath != "" {
		if dir := filepath.Dir(configPath); dir != "." {
			candidates = append(candidates, filepath.Join(dir, ".env"))
		}
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return fmt.Errorf("failed to load %s: %w", candidate, err)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Structured overrides use the format SERVICE_MANAGER_SECTION_FIELD. The plain
// variables used by the existing deployment manifests (INVENTORY_SERVICE_URL
// and friends) are honored as well; the prefixed form wins when both are set.
func applyEnvOverrides(cfg *Config) {
	// Deployment variables
	setString(&cfg.Backends.InventoryURL, "INVENTORY_SERVICE_URL")
	setString(&cfg.Backends.LLMURL, "LLM_SERVICE_URL")
	setString(&cfg.Backends.UserURL, "USER_SERVICE_URL")
	setString(&cfg.Backends.ImageURL, "IMAGE_SERVICE_URL")
	setString(&cfg.Backends.Geolocation.URL, "GEOLOCATION_API_URL")
	setString(&cfg.Backends.Geolocation.APIKey, "GEOLOCATION_API_KEY")

	// Server overrides
	setString(&cfg.Server.ListenAddress, EnvPrefix+"SERVER_LISTEN_ADDRESS")
	setDuration(&cfg.Server.ReadTimeout, EnvPrefix+"SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, EnvPrefix+"SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.IdleTimeout, EnvPrefix+"SERVER_IDLE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, EnvPrefix+"SERVER_SHUTDOWN_TIMEOUT")
	setInt(&cfg.Server.MaxHeaderBytes, EnvPrefix+"SERVER_MAX_HEADER_BYTES")
	setBool(&cfg.Server.CORS.Enabled, EnvPrefix+"SERVER_CORS_ENABLED")
	if val := os.Getenv(EnvPrefix + "SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}

	// Backend overrides
	setString(&cfg.Backends.InventoryURL, EnvPrefix+"BACKENDS_INVENTORY_URL")
	setString(&cfg.Backends.LLMURL, EnvPrefix+"BACKENDS_LLM_URL")
	setString(&cfg.Backends.UserURL, EnvPrefix+"BACKENDS_USER_URL")
	setString(&cfg.Backends.ImageURL, EnvPrefix+"BACKENDS_IMAGE_URL")
	setString(&cfg.Backends.Geolocation.URL, EnvPrefix+"BACKENDS_GEOLOCATION_URL")
	setString(&cfg.Backends.Geolocation.APIKey, EnvPrefix+"BACKENDS_GEOLOCATION_API_KEY")
	setDuration(&cfg.Backends.Timeout, EnvPrefix+"BACKENDS_TIMEOUT")

	// Gateway overrides
	setBool(&cfg.Gateway.EchoFilters, EnvPrefix+"GATEWAY_ECHO_FILTERS")
	setInt64(&cfg.Gateway.MaxUploadBytes, EnvPrefix+"GATEWAY_MAX_UPLOAD_BYTES")
	setInt64(&cfg.Gateway.MaxProxyBodyBytes, EnvPrefix+"GATEWAY_MAX_PROXY_BODY_BYTES")

	// Telemetry overrides
	setString(&cfg.Telemetry.Logging.Level, EnvPrefix+"TELEMETRY_LOGGING_LEVEL")
	setString(&cfg.Telemetry.Logging.Format, EnvPrefix+"TELEMETRY_LOGGING_FORMAT")
	setBool(&cfg.Telemetry.Metrics.Enabled, EnvPrefix+"TELEMETRY_METRICS_ENABLED")
	setString(&cfg.Telemetry.Metrics.Path, EnvPrefix+"TELEMETRY_METRICS_PATH")
	setBool(&cfg.Telemetry.Tracing.Enabled, EnvPrefix+"TELEMETRY_TRACING_ENABLED")
	setString(&cfg.Telemetry.Tracing.Endpoint, EnvPrefix+"TELEMETRY_TRACING_ENDPOINT")
	setBool(&cfg.Telemetry.Tracing.Insecure, EnvPrefix+"TELEMETRY_TRACING_INSECURE")
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Security overrides
	setBool(&cfg.Security.TLS.Enabled, EnvPrefix+"SECURITY_TLS_ENABLED")
	setString(&cfg.Security.TLS.CertFile, EnvPrefix+"SECURITY_TLS_CERT_FILE")
	setString(&cfg.Security.TLS.KeyFile, EnvPrefix+"SECURITY_TLS_KEY_FILE")
	setString(&cfg.Security.Secrets.FileDir, EnvPrefix+"SECURITY_SECRETS_FILE_DIR")
}

// normalizeBackends adds the http scheme to bare host names and strips
// trailing slashes so that endpoint paths can be appended directly.
func normalizeBackends(b *BackendsConfig) {
	b.InventoryURL = NormalizeBaseURL(b.InventoryURL)
	b.LLMURL = NormalizeBaseURL(b.LLMURL)
	b.UserURL = NormalizeBaseURL(b.UserURL)
	b.ImageURL = NormalizeBaseURL(b.ImageURL)
	b.Geolocation.URL = NormalizeBaseURL(b.Geolocation.URL)
}

// NormalizeBaseURL turns "inventory-service" into "http://inventory-service"
// and removes any trailing slash.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setInt64(dst *int64, key string) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			*dst = i
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
