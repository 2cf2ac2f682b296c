// Package routes centralizes HTTP path construction so handlers,
// tests, and startup logging agree on one spelling.
package routes

import "fmt"

// Version is the API version segment baked into every route.
func Version() string {
	return "v0"
}

// Base is the versioned prefix all API routes hang off, "/api/v0".
func Base() string {
	return fmt.Sprintf("/api/%s", Version())
}

// Decks returns the deck generation base path (e.g., "/api/v0/decks").
func Decks() string {
	return Base() + "/decks"
}

// Health returns the liveness probe path. It sits outside the API base
// so probes keep working across API version bumps.
func Health() string {
	return "/healthz"
}
