package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("USERS_CLIENT_SECRET", "s3cr3t")
	p := EnvProvider{}

	got, err := p.Resolve(context.Background(), "USERS_CLIENT_SECRET")
	if err != nil || got != "s3cr3t" {
		t.Errorf("Resolve() = %q, %v", got, err)
	}
	if _, err := p.Resolve(context.Background(), "NOT_SET_ANYWHERE_42"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("unset: err = %v", err)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "jwt-key"), []byte("hmac-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	p := FileProvider{Dir: dir}
	got, err := p.Resolve(ctx, "jwt-key")
	if err != nil || got != "hmac-key" {
		t.Errorf("Resolve() = %q, %v", got, err)
	}

	// Traversal stays inside Dir.
	if _, err := p.Resolve(ctx, "../../outside-secret"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("traversal: err = %v", err)
	}
	if _, err := p.Resolve(ctx, "missing"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("missing: err = %v", err)
	}

	abs := FileProvider{}
	if got, err := abs.Resolve(ctx, filepath.Join(dir, "jwt-key")); err != nil || got != "hmac-key" {
		t.Errorf("absolute Resolve() = %q, %v", got, err)
	}
	if _, err := abs.Resolve(ctx, "jwt-key"); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("relative without Dir: err = %v", err)
	}
}

func TestResolver_FileRef(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "client-secret"), []byte("cs"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(true, EnvProvider{}, FileProvider{Dir: dir})
	got, err := r.ResolveValue(context.Background(), "secretref:file:client-secret")
	if err != nil || got != "cs" {
		t.Errorf("ResolveValue() = %q, %v", got, err)
	}
}
