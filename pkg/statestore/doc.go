// Package statestore implements the one-time anti-replay state cache used by
// the OAuth login flow. A state entry binds the opaque `state` parameter sent
// to the identity provider to the PKCE code challenge the client committed
// to, and resolves exactly once within a fixed TTL.
//
// Two implementations are provided: MemoryStore (jellydator/ttlcache, for
// single-instance deployments and tests) and RedisStore (go-redis, for
// multi-instance deployments). Both make Consume an atomic check-and-delete,
// which is what turns the OAuth state parameter into a replay guard rather
// than a plain CSRF token.
package statestore
