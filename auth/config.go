package auth

import (
	"fmt"
	"strings"
	"time"
)

// Method selects how outbound requests to the users API are authorized.
type Method string

const (
	MethodNone   Method = "none"
	MethodBearer Method = "bearer"
	MethodJWT    Method = "jwt"
	MethodOAuth2 Method = "oauth2"
)

// ValidMethods lists the accepted Method values.
var ValidMethods = []Method{MethodNone, MethodBearer, MethodJWT, MethodOAuth2}

// Config holds the credentials for one upstream. Only the block matching
// Method is read.
type Config struct {
	Method Method

	// Token is the static bearer token for MethodBearer.
	Token string

	JWT    JWTConfig
	OAuth2 OAuth2Config
}

// JWTConfig configures self-signed HS256 tokens.
type JWTConfig struct {
	Key      string
	Issuer   string
	Subject  string
	Audience string

	// TTL is the lifetime of each token. Default: 5m.
	TTL time.Duration
}

// OAuth2Config configures the client credentials grant.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// Validate checks that the fields Method needs are present.
func (c Config) Validate() error {
	switch c.method() {
	case MethodNone:
		return nil
	case MethodBearer:
		if strings.TrimSpace(c.Token) == "" {
			return fmt.Errorf("%w: bearer token", ErrMissingCredentials)
		}
	case MethodJWT:
		if c.JWT.Key == "" {
			return fmt.Errorf("%w: jwt key", ErrMissingCredentials)
		}
		if c.JWT.TTL < 0 {
			return fmt.Errorf("auth: jwt ttl must not be negative, got %v", c.JWT.TTL)
		}
	case MethodOAuth2:
		var missing []string
		if c.OAuth2.ClientID == "" {
			missing = append(missing, "client_id")
		}
		if c.OAuth2.ClientSecret == "" {
			missing = append(missing, "client_secret")
		}
		if c.OAuth2.TokenURL == "" {
			missing = append(missing, "token_url")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: oauth2 %s", ErrMissingCredentials, strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("%w: %q (valid: %v)", ErrUnknownMethod, c.Method, ValidMethods)
	}
	return nil
}

func (c Config) method() Method {
	if c.Method == "" {
		return MethodNone
	}
	return Method(strings.ToLower(string(c.Method)))
}
