// Package logger provides the slog setup for the service plus typed
// attribute helpers (Error, UserID, Component, Provider) that keep log field
// names consistent across packages.
package logger
