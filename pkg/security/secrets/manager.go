package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

// secretRefRegex matches ${secret:name} patterns in configuration values.
var secretRefRegex = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager resolves secrets from several providers in priority order.
//
// Nothing is cached here; file providers keep their own cache which their
// watcher invalidates. Every Resolve call therefore reflects rotated files.
type Manager struct {
	providers []SecretProvider
}

// NewManager creates a manager. Providers are tried in the given order.
func NewManager(providers ...SecretProvider) *Manager {
	return &Manager{providers: providers}
}

// NewManagerFromConfig builds the file provider (when a directory is
// configured) followed by the environment provider.
func NewManagerFromConfig(cfg config.SecretsConfig) (*Manager, error) {
	var providers []SecretProvider

	if cfg.FileDir != "" {
		fileProvider, err := NewFileProvider(cfg.FileDir, cfg.Watch)
		if err != nil {
			return nil, fmt.Errorf("failed to create file secret provider: %w", err)
		}
		providers = append(providers, fileProvider)
	}
	providers = append(providers, NewEnvProvider(cfg.EnvPrefix))

	return NewManager(providers...), nil
}

// GetSecret retrieves a secret from the first provider that has it.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	var errs []error
	for _, provider := range m.providers {
		value, err := provider.GetSecret(ctx, name)
		if err == nil {
			slog.Debug("secret resolved",
				"provider", provider.Provider(),
				"name", redactSecretName(name),
			)
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("provider %s: %w", provider.Provider(), err)
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %q (no providers configured)", ErrNotFound, name)
	}
	return "", errors.Join(errs...)
}

// Resolve replaces every ${secret:name} reference in value. A value without
// references is returned unchanged.
func (m *Manager) Resolve(ctx context.Context, value string) (string, error) {
	if !IsReference(value) {
		return value, nil
	}

	var failures []string
	output := secretRefRegex.ReplaceAllStringFunc(value, func(match string) string {
		name := secretRefRegex.FindStringSubmatch(match)[1]
		secret, err := m.GetSecret(ctx, name)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%q: %v", name, err))
			return match
		}
		return secret
	})

	if len(failures) > 0 {
		return "", fmt.Errorf("failed to resolve secret references: %s", strings.Join(failures, "; "))
	}
	return output, nil
}

// IsReference reports whether value contains a ${secret:name} reference.
func IsReference(value string) bool {
	return secretRefRegex.MatchString(value)
}

// Refresh clears the caches of all refreshable providers.
func (m *Manager) Refresh(ctx context.Context) error {
	var errs []error
	for _, provider := range m.providers {
		if refreshable, ok := provider.(RefreshableProvider); ok {
			if err := refreshable.Refresh(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", provider.Provider(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases provider resources such as file watchers.
func (m *Manager) Close() error {
	var errs []error
	for _, provider := range m.providers {
		if closer, ok := provider.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// redactSecretName shortens a secret name for logging.
func redactSecretName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
