package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateClientID creates a compact identifier for a websocket client.
// Format: client-{8charHexUUID}
//
// Example: "client-a3f8e2b1"
func GenerateClientID() string {
	return "client-" + generateShortUUID()
}

// GenerateRunID creates a standardized, human-readable simulation run ID.
// Format: {operation}-{8charHexUUID}
//
// Example:
//   - Input: operation="simulate"
//   - Output: "simulate-a3f8e2b1"
//
// The generated IDs are short enough for log lines while staying
// globally unique via the UUID suffix.
func GenerateRunID(operation string) string {
	return operation + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID.
// This provides sufficient uniqueness while keeping IDs compact.
func generateShortUUID() string {
	id := uuid.New()
	// Remove hyphens and take first 8 characters
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
