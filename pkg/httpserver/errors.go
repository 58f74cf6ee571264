package httpserver

import "errors"

var (
	// ErrStart indicates the listener failed before a shutdown was requested.
	ErrStart = errors.New("httpserver: server stopped unexpectedly")
	// ErrShutdown indicates graceful shutdown did not finish in time.
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
