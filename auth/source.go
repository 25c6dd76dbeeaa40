package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// NewTokenSource builds the token source cfg describes. MethodNone yields
// a nil source and no error.
//
// For MethodOAuth2, ctx is kept by the source and may carry an
// *http.Client under oauth2.HTTPClient for the token endpoint.
func NewTokenSource(ctx context.Context, cfg Config) (oauth2.TokenSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.method() {
	case MethodBearer:
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}), nil
	case MethodJWT:
		return oauth2.ReuseTokenSource(nil, NewJWTTokenSource(cfg.JWT)), nil
	case MethodOAuth2:
		cc := clientcredentials.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
		}
		return cc.TokenSource(ctx), nil
	default:
		return nil, nil
	}
}

// Transport authorizes every request sent through base with a token from
// ts. A nil ts returns base unchanged; a nil base means
// http.DefaultTransport.
func Transport(base http.RoundTripper, ts oauth2.TokenSource) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if ts == nil {
		return base
	}
	return &oauth2.Transport{Source: ts, Base: base}
}

// NewHTTPClient returns a copy of base whose transport carries cfg's
// credentials. A nil base starts from a zero http.Client.
func NewHTTPClient(ctx context.Context, cfg Config, base *http.Client) (*http.Client, error) {
	ts, err := NewTokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := &http.Client{}
	if base != nil {
		*c = *base
	}
	c.Transport = Transport(c.Transport, ts)
	return c, nil
}
