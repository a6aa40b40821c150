package secrets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

type staticProvider struct {
	name   string
	values map[string]string
	err    error
}

func (p *staticProvider) GetSecret(_ context.Context, name string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if v, ok := p.values[name]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (p *staticProvider) Provider() string { return p.name }

func TestManager_GetSecret_Order(t *testing.T) {
	first := &staticProvider{name: "first", values: map[string]string{"a": "from-first"}}
	second := &staticProvider{name: "second", values: map[string]string{"a": "from-second", "b": "only-second"}}
	manager := NewManager(first, second)

	ctx := context.Background()
	if v, err := manager.GetSecret(ctx, "a"); err != nil || v != "from-first" {
		t.Errorf("expected from-first, got %q (%v)", v, err)
	}
	if v, err := manager.GetSecret(ctx, "b"); err != nil || v != "only-second" {
		t.Errorf("expected fallback to second provider, got %q (%v)", v, err)
	}
	if _, err := manager.GetSecret(ctx, "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_GetSecret_ProviderFailureStops(t *testing.T) {
	broken := &staticProvider{name: "broken", err: errors.New("permission denied")}
	fallback := &staticProvider{name: "fallback", values: map[string]string{"a": "x"}}

	_, err := NewManager(broken, fallback).GetSecret(context.Background(), "a")
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("expected provider failure to surface, got %v", err)
	}
}

func TestManager_Resolve(t *testing.T) {
	manager := NewManager(&staticProvider{name: "static", values: map[string]string{"geolocation-api-key": "pk.123"}})
	ctx := context.Background()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "literal-key", want: "literal-key"},
		{input: "", want: ""},
		{input: "${secret:geolocation-api-key}", want: "pk.123"},
		{input: "prefix-${secret:geolocation-api-key}", want: "prefix-pk.123"},
		{input: "${secret:unknown}", wantErr: true},
	}

	for _, tt := range tests {
		got, err := manager.Resolve(ctx, tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Resolve(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestNewManagerFromConfig(t *testing.T) {
	tmpDir := t.TempDir()
	writeSecret(t, tmpDir, "geolocation-api-key", "from-file", 0600)
	t.Setenv("TEST_SECRET_GEOLOCATION_API_KEY", "from-env")
	t.Setenv("TEST_SECRET_OTHER", "env-only")

	manager, err := NewManagerFromConfig(config.SecretsConfig{
		EnvPrefix: "TEST_SECRET_",
		FileDir:   tmpDir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer manager.Close()

	ctx := context.Background()
	if v, _ := manager.Resolve(ctx, "${secret:geolocation-api-key}"); v != "from-file" {
		t.Errorf("file provider should win, got %q", v)
	}
	if v, _ := manager.Resolve(ctx, "${secret:other}"); v != "env-only" {
		t.Errorf("env provider fallback failed, got %q", v)
	}
}

func TestRedactSecretName(t *testing.T) {
	if got := redactSecretName("key"); got != "***" {
		t.Errorf("short names should be fully redacted, got %q", got)
	}
	if got := redactSecretName("geolocation-api-key"); got != "ge...ey" {
		t.Errorf("unexpected redaction %q", got)
	}
}
