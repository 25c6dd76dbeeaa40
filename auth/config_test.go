package auth

import (
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"empty is none", Config{}, nil},
		{"none", Config{Method: MethodNone}, nil},
		{"bearer", Config{Method: MethodBearer, Token: "abc"}, nil},
		{"bearer blank", Config{Method: MethodBearer, Token: "  "}, ErrMissingCredentials},
		{"jwt", Config{Method: MethodJWT, JWT: JWTConfig{Key: "k"}}, nil},
		{"jwt upper-case method", Config{Method: "JWT", JWT: JWTConfig{Key: "k"}}, nil},
		{"jwt no key", Config{Method: MethodJWT}, ErrMissingCredentials},
		{"oauth2", Config{Method: MethodOAuth2, OAuth2: OAuth2Config{ClientID: "id", ClientSecret: "s", TokenURL: "http://idp/token"}}, nil},
		{"oauth2 partial", Config{Method: MethodOAuth2, OAuth2: OAuth2Config{ClientID: "id"}}, ErrMissingCredentials},
		{"unknown", Config{Method: "basic"}, ErrUnknownMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateNegativeTTL(t *testing.T) {
	cfg := Config{Method: MethodJWT, JWT: JWTConfig{Key: "k", TTL: -time.Second}}
	if err := cfg.Validate(); err == nil {
		t.Error("negative TTL should fail")
	}
}
