package embed

import (
	"context"
	"fmt"
)

// Provider produces fixed-dimension vector embeddings. Implementations must
// return one vector per input text, in input order, and be deterministic
// for identical input so scores are reproducible across runs.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// RetryableError indicates a transient provider failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable embedding error (status %d): %s", e.StatusCode, e.Message)
}
