// Package httpserver wraps net/http with context-driven graceful shutdown
// and a composable health-check handler. Run blocks until the context is
// cancelled and then drains in-flight requests within the shutdown timeout.
package httpserver
