package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNodeCount bounds the index space of a graph. Node counts come from
// documents and size every per-node table, so larger values are rejected
// before anything is allocated. A 64 MiB request body cannot list edges
// touching more nodes than this.
const MaxNodeCount = 1 << 22

// ValidateNodeCount checks that n lies in [0, MaxNodeCount].
func ValidateNodeCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidNodeCount, "node count must be >= 0, got %d", n)
	}
	if n > MaxNodeCount {
		return New(ErrCodeInvalidNodeCount, "node count %d exceeds the limit of %d", n, MaxNodeCount)
	}
	return nil
}

// ValidateIterations rejects negative iteration counts. They are never
// clamped to zero.
func ValidateIterations(iterations int) error {
	if iterations < 0 {
		return New(ErrCodeInvalidIterations, "iterations must be >= 0, got %d", iterations)
	}
	return nil
}

// ValidateIndex checks that index lies in [0, n).
func ValidateIndex(index, n int) error {
	if index < 0 || index >= n {
		return New(ErrCodeInvalidIndex, "node index %d out of range [0, %d)", index, n)
	}
	return nil
}

// ValidateWeight rejects NaN and infinite edge weights.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidWeight, "edge weight must be finite, got %v", w)
	}
	return nil
}

// ValidatePath validates a user-supplied output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateAddr validates a host:port listen or dial address.
func ValidateAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "address cannot be empty")
	}
	if !strings.Contains(addr, ":") {
		return New(ErrCodeInvalidConfig, "address %q must be host:port", addr)
	}
	return nil
}
