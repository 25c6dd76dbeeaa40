package secret

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name     string
	values   map[string]string
	err      error
	closeErr error
	closed   bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[ref], nil
}

func (s *stubProvider) Close() error {
	s.closed = true
	return s.closeErr
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		in       string
		provider string
		ref      string
		ok       bool
	}{
		{"secretref:env:USERS_CLIENT_SECRET", "env", "USERS_CLIENT_SECRET", true},
		{"secretref:file:/run/secrets/jwt", "file", "/run/secrets/jwt", true},
		{"secretref:env:", "", "", false},
		{"secretref::x", "", "", false},
		{"plain-value", "", "", false},
		{"Bearer secretref:env:TOKEN", "", "", false},
	}
	for _, tt := range tests {
		provider, ref, ok := ParseSecretRef(tt.in)
		if provider != tt.provider || ref != tt.ref || ok != tt.ok {
			t.Errorf("ParseSecretRef(%q) = %q, %q, %v", tt.in, provider, ref, ok)
		}
	}
}

func TestResolver_ResolveValue(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{
		"client-secret": "s3cr3t",
		"token":         "abc",
	}})

	tests := []struct {
		in   string
		want string
	}{
		{"secretref:stub:client-secret", "s3cr3t"},
		{"Bearer secretref:stub:token", "Bearer abc"},
		{"no refs here", "no refs here"},
	}
	for _, tt := range tests {
		got, err := r.ResolveValue(context.Background(), tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ResolveValue(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestResolver_InlineMultiple(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"id": "typeahead", "key": "k1"}})

	got, err := r.ResolveValue(context.Background(), "id=secretref:stub:id key=secretref:stub:key")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "id=typeahead key=k1" {
		t.Errorf("ResolveValue() = %q", got)
	}
}

func TestResolver_Errors(t *testing.T) {
	errBackend := errors.New("backend down")
	ctx := context.Background()

	r := NewResolver(true,
		&stubProvider{name: "stub", values: map[string]string{"empty": ""}},
		&stubProvider{name: "broken", err: errBackend},
	)

	if _, err := r.ResolveValue(ctx, "secretref:stub:empty"); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("strict empty: err = %v", err)
	}
	if _, err := r.ResolveValue(ctx, "secretref:vault:x"); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("unknown provider: err = %v", err)
	}
	if _, err := r.ResolveValue(ctx, "Bearer secretref:broken:x"); !errors.Is(err, errBackend) {
		t.Errorf("provider error: err = %v", err)
	}

	lenient := NewResolver(false, &stubProvider{name: "stub"})
	if got, err := lenient.ResolveValue(ctx, "secretref:stub:missing"); err != nil || got != "" {
		t.Errorf("lenient empty = %q, %v", got, err)
	}
}

func TestResolver_NilExpandsEnvOnly(t *testing.T) {
	t.Setenv("USERS_BASE_URL", "http://localhost:3000")

	var r *Resolver
	got, err := r.ResolveValue(context.Background(), "${USERS_BASE_URL}/")
	if err != nil || got != "http://localhost:3000/" {
		t.Errorf("ResolveValue() = %q, %v", got, err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
}

func TestResolver_ResolveInPlace(t *testing.T) {
	t.Setenv("USERS_CLIENT_ID", "typeahead")
	r := NewResolver(true, EnvProvider{})

	id := "${USERS_CLIENT_ID}"
	secret := ""
	if err := r.ResolveInPlace(context.Background(), &id, &secret, nil); err != nil {
		t.Fatalf("ResolveInPlace() error = %v", err)
	}
	if id != "typeahead" || secret != "" {
		t.Errorf("id = %q, secret = %q", id, secret)
	}

	bad := "secretref:env:NOT_SET_ANYWHERE_42"
	if err := r.ResolveInPlace(context.Background(), &id, &bad); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("err = %v, want ErrSecretNotFound", err)
	}
}

func TestResolver_ResolveMap(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"alpha": "one"}})

	m, err := r.ResolveMap(context.Background(), map[string]string{"Authorization": "Bearer secretref:stub:alpha"})
	if err != nil || m["Authorization"] != "Bearer one" {
		t.Errorf("ResolveMap() = %v, %v", m, err)
	}
	if m, err := r.ResolveMap(context.Background(), nil); m != nil || err != nil {
		t.Errorf("nil map = %v, %v", m, err)
	}
}

func TestResolver_Close(t *testing.T) {
	errClose := errors.New("close failed")
	a := &stubProvider{name: "a"}
	b := &stubProvider{name: "b", closeErr: errClose}

	err := NewResolver(false, a, b).Close()
	if !errors.Is(err, errClose) {
		t.Errorf("Close() = %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("every provider should be closed")
	}
}
