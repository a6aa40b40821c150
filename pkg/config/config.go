package config

import "time"

// Config is the root configuration structure for the service manager gateway.
// It is built once at process start and handed to every component that needs
// it; nothing in the gateway reads configuration from package-level state.
type Config struct {
	// Server contains HTTP listener configuration including listen address,
	// timeouts, and CORS.
	Server ServerConfig `yaml:"server"`

	// Backends contains the base URLs of every service the gateway delegates to
	// and the shared outbound transport settings.
	Backends BackendsConfig `yaml:"backends"`

	// Gateway contains behavior switches for the orchestration pipelines.
	Gateway GatewayConfig `yaml:"gateway"`

	// Telemetry contains configuration for logging, metrics, tracing and
	// health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains TLS serving and secret resolution settings.
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig contains configuration for the inbound HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the gateway to listen on.
	// Default: "0.0.0.0:8000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. Default: 60s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must cover the slowest orchestration pipeline. Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size. Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed in CORS
	// requests. The browser frontend sends the Authorization header, so
	// this defaults to true.
	AllowCredentials bool `yaml:"allow_credentials"`
}

// BackendsConfig lists the backend services and the outbound HTTP transport.
// URLs may be given with or without a scheme; "http://" is assumed when
// missing, matching how the services are addressed inside the cluster.
type BackendsConfig struct {
	// InventoryURL is the base URL of the inventory (property catalog) service.
	// Default: "http://inventory-service"
	InventoryURL string `yaml:"inventory_url"`

	// LLMURL is the base URL of the query interpretation service.
	// Default: "http://llm-service:8888"
	LLMURL string `yaml:"llm_url"`

	// UserURL is the base URL of the user and token service.
	// Default: "http://user-manager:8080"
	UserURL string `yaml:"user_url"`

	// ImageURL is the base URL of the image store.
	// Default: "http://image-service:8080"
	ImageURL string `yaml:"image_url"`

	// Geolocation configures the external forward-geocoding API.
	Geolocation GeolocationConfig `yaml:"geolocation"`

	// Timeout is the outbound transport timeout. A timeout is reported as a
	// transport failure, never retried. Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections across all
	// backends. Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum number of idle connections per
	// backend host. Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection stays pooled. Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// GeolocationConfig configures the forward-geocoding API.
type GeolocationConfig struct {
	// URL is the full search endpoint.
	// Default: "https://us1.locationiq.com/v1/search"
	URL string `yaml:"url"`

	// APIKey is the geocoding API key. It may be a literal value or a
	// reference of the form "${secret:name}", resolved on every lookup so a
	// rotated key file is picked up without restart.
	APIKey string `yaml:"api_key"`
}

// GatewayConfig contains behavior switches for the orchestration pipelines.
type GatewayConfig struct {
	// EchoFilters annotates query pipeline results with the filter mapping
	// derived from the language model. Default: false
	EchoFilters bool `yaml:"echo_filters"`

	// MaxUploadBytes limits the size of a listing creation form including
	// all images. Default: 33554432 (32MB)
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// MaxProxyBodyBytes limits request bodies forwarded on pass-through
	// routes. Default: 10485760 (10MB)
	MaxProxyBodyBytes int64 `yaml:"max_proxy_body_bytes"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks bearer tokens, access tokens and API keys in log
	// attributes. Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "service_manager"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "gateway"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for request and
	// backend call durations (seconds).
	// Default: [0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds span export calls. Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "service-manager"
	ServiceName string `yaml:"service_name"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health endpoints are registered.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the liveness probe path. Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the readiness probe path. Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// VersionPath is the build information path. Default: "/version"
	VersionPath string `yaml:"version_path"`

	// CheckTimeout bounds each backend reachability probe. Default: 2s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// TLS configures TLS termination on the gateway listener.
	TLS TLSConfig `yaml:"tls"`

	// Secrets configures where "${secret:name}" references are resolved.
	Secrets SecretsConfig `yaml:"secrets"`
}

// TLSConfig contains TLS configuration.
type TLSConfig struct {
	// Enabled turns on TLS termination. Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM encoded certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM encoded private key.
	KeyFile string `yaml:"key_file"`
}

// SecretsConfig contains secret resolution configuration.
type SecretsConfig struct {
	// EnvPrefix is prepended to environment variable names when resolving a
	// secret from the environment. Default: "SERVICE_MANAGER_SECRET_"
	EnvPrefix string `yaml:"env_prefix"`

	// FileDir is a directory of one-file-per-secret mounts. Empty disables
	// the file provider.
	FileDir string `yaml:"file_dir"`

	// Watch reloads file secrets when the directory changes. Default: true
	Watch bool `yaml:"watch"`
}
