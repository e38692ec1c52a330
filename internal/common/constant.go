// Package common contains shared constants and sentinel errors used across
// Botfolio components.
package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "
