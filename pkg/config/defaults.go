package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:8000"
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = true

	// Backend defaults
	DefaultInventoryURL        = "http://inventory-service"
	DefaultLLMURL              = "http://llm-service:8888"
	DefaultUserURL             = "http://user-manager:8080"
	DefaultImageURL            = "http://image-service:8080"
	DefaultGeolocationURL      = "https://us1.locationiq.com/v1/search"
	DefaultBackendTimeout      = 30 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	// Gateway defaults
	DefaultEchoFilters       = false
	DefaultMaxUploadBytes    = int64(32 << 20)
	DefaultMaxProxyBodyBytes = int64(10 << 20)

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultRedactSecrets      = true
	DefaultMetricsEnabled     = true
	DefaultPrometheusPath     = "/metrics"
	DefaultMetricsNamespace   = "service_manager"
	DefaultMetricsSubsystem   = "gateway"
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingService     = "service-manager"
	DefaultHealthEnabled      = true
	DefaultLivenessPath       = "/health"
	DefaultReadinessPath      = "/ready"
	DefaultVersionPath        = "/version"
	DefaultHealthCheckTimeout = 2 * time.Second

	// Security defaults
	DefaultTLSEnabled       = false
	DefaultSecretsEnvPrefix = "SERVICE_MANAGER_SECRET_"
	DefaultSecretsWatch     = true
)

// DefaultDurationBuckets are the histogram buckets used for inbound requests
// and backend calls when none are configured.
var DefaultDurationBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Default returns a configuration with every field set to its default.
// YAML is decoded on top of this value so that boolean options which default
// to true stay true unless a file sets them explicitly.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{
				Enabled:          DefaultCORSEnabled,
				AllowCredentials: DefaultCORSAllowCredentials,
			},
		},
		Gateway: GatewayConfig{
			EchoFilters: DefaultEchoFilters,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: DefaultRedactSecrets},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Enabled: DefaultTracingEnabled},
			Health:  HealthConfig{Enabled: DefaultHealthEnabled},
		},
		Security: SecurityConfig{
			TLS:     TLSConfig{Enabled: DefaultTLSEnabled},
			Secrets: SecretsConfig{Watch: DefaultSecretsWatch},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	applyCORSDefaults(&cfg.Server.CORS)

	// Backend defaults
	if cfg.Backends.InventoryURL == "" {
		cfg.Backends.InventoryURL = DefaultInventoryURL
	}
	if cfg.Backends.LLMURL == "" {
		cfg.Backends.LLMURL = DefaultLLMURL
	}
	if cfg.Backends.UserURL == "" {
		cfg.Backends.UserURL = DefaultUserURL
	}
	if cfg.Backends.ImageURL == "" {
		cfg.Backends.ImageURL = DefaultImageURL
	}
	if cfg.Backends.Geolocation.URL == "" {
		cfg.Backends.Geolocation.URL = DefaultGeolocationURL
	}
	if cfg.Backends.Timeout == 0 {
		cfg.Backends.Timeout = DefaultBackendTimeout
	}
	if cfg.Backends.MaxIdleConns == 0 {
		cfg.Backends.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Backends.MaxIdleConnsPerHost == 0 {
		cfg.Backends.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Backends.IdleConnTimeout == 0 {
		cfg.Backends.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Gateway defaults
	if cfg.Gateway.MaxUploadBytes == 0 {
		cfg.Gateway.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Gateway.MaxProxyBodyBytes == 0 {
		cfg.Gateway.MaxProxyBodyBytes = DefaultMaxProxyBodyBytes
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 && cfg.Telemetry.Tracing.Sampler == "ratio" {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Telemetry.Health.VersionPath == "" {
		cfg.Telemetry.Health.VersionPath = DefaultVersionPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}

	// Security defaults
	if cfg.Security.Secrets.EnvPrefix == "" {
		cfg.Security.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
}

func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}
