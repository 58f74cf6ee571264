// Package redis wraps the go-redis client with a retrying Connect and a
// healthcheck closure. The authentication core uses Redis for the
// distributed pending-login state store (see pkg/statestore).
package redis
