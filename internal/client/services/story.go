// Package services implements the domain operations of the ShareStory client
// on top of the local store and the remote API client.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/client/repositories/stories"
	"github.com/dmitrijs2005/sharestory/internal/client/session"
	"github.com/dmitrijs2005/sharestory/internal/client/utils"
	"github.com/dmitrijs2005/sharestory/internal/common"
	"github.com/dmitrijs2005/sharestory/internal/logging"
	"github.com/google/uuid"
)

// ListOptions narrows a story listing. A zero value means no filtering.
type ListOptions struct {
	SyncStatus models.SyncStatus
}

type StoryService interface {
	// ListAll returns every stored story, newest first. It never fails:
	// storage errors are logged and an empty list is returned.
	ListAll(ctx context.Context) []models.Story

	// List is ListAll with optional filtering.
	List(ctx context.Context, opts ListOptions) []models.Story

	// SaveLocal persists an offline-authored draft as a pending story.
	SaveLocal(ctx context.Context, sess *session.Session, draft models.Draft) (*models.Story, error)

	// ImportFromRemote stores already-synced stories fetched from the API.
	// Each story is written independently; a partial failure keeps the
	// successfully written ones.
	ImportFromRemote(ctx context.Context, remote []models.Story) error

	// GetByID returns a single story or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Story, error)

	// Delete removes a story and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// HasPending reports whether any story awaits upload.
	HasPending(ctx context.Context) (bool, error)

	// RetryFailed moves a failed story back to pending. It reports false,
	// with no error, when the story is absent or not in failed status.
	RetryFailed(ctx context.Context, id string) (bool, error)
}

type storyService struct {
	repo stories.Repository
	log  logging.Logger
}

func NewStoryService(repo stories.Repository, log logging.Logger) StoryService {
	return &storyService{repo: repo, log: log}
}

func (s *storyService) ListAll(ctx context.Context) []models.Story {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		// callers render whatever is available; an empty feed beats a crash
		s.log.Error(ctx, "failed to list stories", "error", err)
		return []models.Story{}
	}

	// newest first; the stable sort keeps store insertion order for equal
	// timestamps
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

func (s *storyService) List(ctx context.Context, opts ListOptions) []models.Story {
	all := s.ListAll(ctx)
	if opts.SyncStatus == "" {
		return all
	}

	filtered := make([]models.Story, 0, len(all))
	for _, story := range all {
		if story.SyncStatus == opts.SyncStatus {
			filtered = append(filtered, story)
		}
	}
	return filtered
}

// localID generates a unique id for an offline-authored story. The uuid makes
// collisions between concurrent writers practically impossible; the store
// check covers the remaining case.
func (s *storyService) localID(ctx context.Context) (string, error) {
	for {
		id := "local-" + uuid.NewString()
		_, err := s.repo.Get(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check id uniqueness: %w", err)
		}
	}
}

func (s *storyService) SaveLocal(ctx context.Context, sess *session.Session, draft models.Draft) (*models.Story, error) {
	if strings.TrimSpace(draft.Description) == "" {
		return nil, fmt.Errorf("%w: description must not be empty", common.ErrValidation)
	}
	if len(draft.Photo) == 0 {
		return nil, fmt.Errorf("%w: photo must not be empty", common.ErrValidation)
	}
	if (draft.Lat == nil) != (draft.Lon == nil) {
		return nil, fmt.Errorf("%w: lat and lon must be set together", common.ErrValidation)
	}

	id, err := s.localID(ctx)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		ID:          id,
		Name:        sess.DisplayName(),
		Description: draft.Description,
		PhotoURL:    utils.EncodePhotoDataURL(draft.PhotoMIME, draft.Photo),
		Lat:         draft.Lat,
		Lon:         draft.Lon,
		CreatedAt:   time.Now().UTC(),
		SyncStatus:  models.SyncPending,
	}

	if err := s.repo.Put(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	s.log.Info(ctx, "story saved locally", "id", story.ID)
	return story, nil
}

func (s *storyService) ImportFromRemote(ctx context.Context, remote []models.Story) error {
	var errs []error
	for _, story := range remote {
		story.SyncStatus = models.SyncSynced
		if err := s.repo.Put(ctx, &story); err != nil {
			s.log.Error(ctx, "failed to import story", "id", story.ID, "error", err)
			errs = append(errs, fmt.Errorf("story %s: %w", story.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *storyService) GetByID(ctx context.Context, id string) (*models.Story, error) {
	return s.repo.Get(ctx, id)
}

func (s *storyService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *storyService) HasPending(ctx context.Context) (bool, error) {
	pending, err := s.repo.GetByStatus(ctx, models.SyncPending)
	if err != nil {
		return false, fmt.Errorf("failed to check pending stories: %w", err)
	}
	return len(pending) > 0, nil
}

func (s *storyService) RetryFailed(ctx context.Context, id string) (bool, error) {
	moved, err := s.repo.TransitionStatus(ctx, id, models.SyncFailed, models.SyncPending)
	if err != nil {
		return false, fmt.Errorf("failed to retry story %s: %w", id, err)
	}
	return moved, nil
}
