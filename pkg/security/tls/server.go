package tls

import (
	"context"
	"crypto/tls"
	"errors"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

// ServerConfig builds the listener TLS configuration. The certificate is
// served through a reloader that lives until ctx is cancelled.
func ServerConfig(ctx context.Context, cfg config.TLSConfig) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, errors.New("tls is not enabled")
	}

	reloader := NewCertificateReloader(cfg.CertFile, cfg.KeyFile)
	if err := reloader.Start(ctx); err != nil {
		return nil, err
	}

	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: reloader.GetCertificateFunc(),
	}, nil
}
