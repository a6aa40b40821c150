/*
Package tls terminates TLS on the gateway listener.

TLS is optional; inside a cluster the gateway usually sits behind an ingress
that terminates TLS. When enabled, the certificate and key are read from PEM
files and reloaded whenever either file changes:

	security:
	  tls:
	    enabled: true
	    cert_file: "/etc/service-manager/tls/tls.crt"
	    key_file: "/etc/service-manager/tls/tls.key"

	tlsConfig, err := tls.ServerConfig(ctx, cfg.Security.TLS)
	if err != nil {
		return err
	}
	server.TLSConfig = tlsConfig

A renewed pair that fails to load or is not currently valid is logged and
ignored; the previous certificate keeps being served.
*/
package tls
