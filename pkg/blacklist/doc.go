// Package blacklist records consumed and revoked refresh tokens so each
// refresh token can be used at most once. Entries are keyed by a one-way
// SHA-256 fingerprint of the token's exact wire form and carry the token's
// own expiry, which makes periodic pruning safe: once a token would have
// expired naturally, its blacklist entry no longer protects anything.
//
// PostgresStore (pgx/v5) is the production implementation; MemoryStore backs
// tests and local development.
package blacklist
