// Package config loads typeahead settings with viper.
//
// Precedence, lowest first: built-in defaults, a YAML file (--config, or
// typeahead.yaml in . or /etc/typeahead), TYPEAHEAD_* environment
// variables, then flags from Flags that were set. Credential fields under
// users.auth and users.base_url may hold ${ENV} or secretref: values; Load
// resolves them before validation.
//
//	users:
//	  base_url: https://jsonplaceholder.typicode.com/
//	  auth:
//	    method: oauth2
//	    oauth2:
//	      client_id: typeahead
//	      client_secret: secretref:file:users-client-secret
//	      token_url: https://idp.example.com/oauth/token
//	cache:
//	  ttl: 10s
//	search:
//	  mode: prefix
//	  limit: 10
package config
