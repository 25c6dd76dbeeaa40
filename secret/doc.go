// Package secret resolves credentials referenced from configuration.
//
// Values are first expanded with ExpandEnvStrict, then any
// "secretref:<provider>:<ref>" references are resolved through a Provider.
// EnvProvider and FileProvider are built in:
//
//	users.client_secret: secretref:env:USERS_CLIENT_SECRET
//	users.jwt_key:       secretref:file:users-jwt-key
//
// Resolved values must never be logged.
package secret
