package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// PageStore tracks which URLs a crawl has seen
type PageStore interface {
	// MarkPageVisited records a URL as pending.
	// Returns true if the URL was newly added, false if it already existed
	MarkPageVisited(normalizedPageURL string) (bool, error)

	// CheckPageStatus returns PageStatusNotFound for unseen URLs, PageStatusPending for
	// queued ones, or the stored status with its entry
	CheckPageStatus(normalizedPageURL string) (status models.PageStatus, entry *models.PageDBEntry, err error)

	// UpdatePageStatus stores the outcome of a render attempt
	UpdatePageStatus(normalizedPageURL string, entry *models.PageDBEntry) error
}

// VisionCache holds vision answers keyed by image URL for the duration of a run
type VisionCache interface {
	GetVisionResult(imageURL string) (*models.VisionResult, bool, error)
	PutVisionResult(imageURL string, result *models.VisionResult) error
}

// RunStore is the per-run state owned by a single pipeline invocation
type RunStore interface {
	PageStore
	VisionCache

	// GetVisitedCount returns the number of page keys in the store
	GetVisitedCount() (int, error)

	// Close releases the store; its contents are gone afterwards
	Close() error
}

// Open creates an empty per-run store of the given kind ("memory" or "badger")
func Open(kind string, logger *logrus.Entry) (RunStore, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "badger":
		return NewBadgerStore(logger)
	default:
		return nil, fmt.Errorf("%w: unknown visited store kind '%s'", utils.ErrConfigValidation, kind)
	}
}
