// Package config provides configuration management for the service manager gateway.
//
// This package handles loading, validating, and defaulting configuration from
// YAML files, .env files and environment variables. The result is a single
// *Config value built once at startup and passed explicitly to every component.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file (optional), .env file and environment variables:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Structured overrides follow the naming convention SERVICE_MANAGER_SECTION_FIELD:
//
//   - SERVICE_MANAGER_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SERVICE_MANAGER_GATEWAY_ECHO_FILTERS overrides gateway.echo_filters
//   - SERVICE_MANAGER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// The deployment variables INVENTORY_SERVICE_URL, LLM_SERVICE_URL,
// USER_SERVICE_URL, IMAGE_SERVICE_URL, GEOLOCATION_API_URL and
// GEOLOCATION_API_KEY are also read. Bare host names such as
// "user-manager:8080" are accepted and get an http:// scheme.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides (including those loaded from .env)
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8000"
//
//	backends:
//	  inventory_url: "http://inventory-service"
//	  llm_url: "http://llm-service:8888"
//	  user_url: "http://user-manager:8080"
//	  image_url: "http://image-service:8080"
//	  geolocation:
//	    url: "https://us1.locationiq.com/v1/search"
//	    api_key: "${secret:geolocation-api-key}"
//
//	gateway:
//	  echo_filters: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
