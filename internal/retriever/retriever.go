// Package retriever defines the boundary to the external semantic
// similarity search and its HTTP implementation.
package retriever

import (
	"context"
	"errors"
)

// Candidate is one search hit: an entry id with its similarity in [0,1].
type Candidate struct {
	EntryID    string  `json:"entry_id"`
	Similarity float64 `json:"similarity"`
}

// Retriever returns ranked candidates for a query. Implementations must
// respect ctx cancellation and fail fast rather than block.
type Retriever interface {
	Search(ctx context.Context, query, language string, topK int) ([]Candidate, error)
}

// Sentinel errors for the retriever boundary.
var (
	// ErrUnavailable wraps any transport failure of the retriever call.
	ErrUnavailable = errors.New("retriever unavailable")

	// ErrTimeout marks a retriever call that exceeded its deadline. It
	// wraps ErrUnavailable, so errors.Is(err, ErrUnavailable) also holds.
	ErrTimeout = timeoutError{}
)

type timeoutError struct{}

func (timeoutError) Error() string { return "retriever timed out" }

func (timeoutError) Unwrap() error { return ErrUnavailable }
