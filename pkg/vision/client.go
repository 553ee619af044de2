// Package vision enriches image URLs with captions, OCR text and dominant colors through an
// injected vision capability, degrading to unenriched images when it is unavailable.
package vision

import (
	"context"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

// Options select what the vision capability is asked for
type Options struct {
	EnableOCR      bool
	EnableColors   bool
	EnableCaptions bool
	MaxImages      int // images beyond this pass through unenriched
	Concurrency    int // in-flight calls
}

// Any reports whether at least one analysis is requested
func (o Options) Any() bool {
	return o.EnableOCR || o.EnableColors || o.EnableCaptions
}

// Client analyzes one image. Implementations must be safe for concurrent use.
type Client interface {
	Analyze(ctx context.Context, imageURL string, opts Options) (models.VisionResult, error)
}

// Pinger is implemented by clients that can report availability before a batch
type Pinger interface {
	Ping(ctx context.Context) error
}
