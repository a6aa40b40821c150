/*
Package secrets resolves credentials referenced from configuration.

Configuration values may contain references of the form ${secret:name}
instead of literal credentials:

	backends:
	  geolocation:
	    api_key: "${secret:geolocation-api-key}"

A Manager resolves a reference by asking its providers in order:

  - File provider: one file per secret in a mounted directory (Kubernetes
    or Docker secret volumes). Optional; enabled by security.secrets.file_dir.
  - Environment provider: the secret name upper-cased, hyphens replaced by
    underscores, behind a prefix. "geolocation-api-key" is read from
    SERVICE_MANAGER_SECRET_GEOLOCATION_API_KEY.

# Basic Usage

	manager, err := secrets.NewManagerFromConfig(cfg.Security.Secrets)
	if err != nil {
		return err
	}
	defer manager.Close()

	key, err := manager.Resolve(ctx, cfg.Backends.Geolocation.APIKey)

# Rotation

The file provider watches its directory with fsnotify. Any write, create,
remove or rename clears its cache, so the next Resolve reads the rotated
value. Callers resolve on every use rather than once at startup.

# Security Considerations

  - Secret values are never logged; names are shortened in debug logs
  - Secret files must not be group or world writable
  - Secret names are single path elements; traversal is refused
*/
package secrets
