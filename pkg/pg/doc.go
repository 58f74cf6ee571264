// Package pg bootstraps the PostgreSQL layer: a pgx/v5 connection pool with
// retrying Connect, goose migrations applied from an embedded filesystem, a
// healthcheck closure for probes, and error classifiers (IsNotFoundError,
// IsDuplicateKeyError) that keep SQLSTATE knowledge out of business logic.
//
// Configuration comes from environment variables via the Config struct;
// see the field tags for variable names and defaults.
package pg
