package stories

import (
	"context"

	"github.com/dmitrijs2005/sharestory/internal/client/models"
)

// Repository is the keyed story store. Every call is atomic: a Put or Delete
// is observed as a whole or not at all.
type Repository interface {
	// Put inserts or replaces a story by id.
	Put(ctx context.Context, story *models.Story) error

	// Get returns the story or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Story, error)

	// GetAll returns every stored story with no ordering guarantee.
	GetAll(ctx context.Context) ([]models.Story, error)

	// GetByStatus returns all stories whose sync status equals status,
	// served from the sync_status index.
	GetByStatus(ctx context.Context, status models.SyncStatus) ([]models.Story, error)

	// TransitionStatus moves a story from one status to another in a single
	// conditional update. It reports whether a row actually moved, so callers
	// can express guards like "failed to pending only".
	TransitionStatus(ctx context.Context, id string, from, to models.SyncStatus) (bool, error)

	// Delete removes a story and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Clear removes all stories.
	Clear(ctx context.Context) error
}
