// Package config loads per-concern configuration structs from environment
// variables (github.com/caarlos0/env) with optional .env bootstrap
// (github.com/joho/godotenv). Each package that needs configuration declares
// its own Config struct with `env:` tags; wiring code calls config.Load on
// each of them at startup.
package config
