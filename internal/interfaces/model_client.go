package interfaces

import (
	"context"
	"time"
)

// ModelRequest is one generation call to a local or remote model endpoint.
type ModelRequest struct {
	Model         string
	System        string
	Prompt        string
	Images        [][]byte
	Temperature   float64
	ContextWindow int
	KeepAlive     time.Duration
}

// ModelClient talks to one model endpoint. Implementations wrap errors the
// model itself reported with models.ErrModel; any other failure is treated
// as connectivity trouble and may be retried by the dispatcher.
type ModelClient interface {
	Generate(ctx context.Context, req ModelRequest) (string, error)
}
