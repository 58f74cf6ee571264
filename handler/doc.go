// Package handler is the HTTP surface of the auth service: a chi router
// exposing login-URL issuance, the OAuth callback exchange, refresh-token
// rotation, and logout. Responses use a uniform JSON envelope; domain errors
// map to stable machine-readable codes so clients never parse messages.
package handler
