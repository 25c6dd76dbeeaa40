// Package auth authorizes outbound requests to the users API.
//
// A Config picks one Method: a static bearer token, self-signed HS256 JWTs
// (JWTTokenSource, on github.com/golang-jwt/jwt/v5) or the OAuth2 client
// credentials grant (golang.org/x/oauth2/clientcredentials). All three
// become an oauth2.TokenSource, and Transport puts the token on each
// request:
//
//	httpClient, err := auth.NewHTTPClient(ctx, auth.Config{
//	    Method: auth.MethodOAuth2,
//	    OAuth2: auth.OAuth2Config{
//	        ClientID:     "typeahead",
//	        ClientSecret: secretValue,
//	        TokenURL:     "https://idp.example.com/oauth/token",
//	    },
//	}, &http.Client{Timeout: 5 * time.Second})
package auth
