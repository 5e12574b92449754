package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sharestory/internal/client/client"
	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/client/repositories/stories"
	"github.com/dmitrijs2005/sharestory/internal/client/utils"
	"github.com/dmitrijs2005/sharestory/internal/logging"
)

// SyncResult aggregates the per-story outcomes of one sync pass.
type SyncResult struct {
	Synced int
	Failed int
}

type SyncService interface {
	// SyncPending pushes every pending story to the remote API, one at a
	// time. A story that fails to upload is marked failed and the pass
	// moves on; it is never retried automatically. An error is returned
	// only when the pending set itself cannot be read or the context is
	// cancelled between stories.
	SyncPending(ctx context.Context) (SyncResult, error)
}

type syncService struct {
	api  client.Client
	repo stories.Repository
	log  logging.Logger
}

func NewSyncService(api client.Client, repo stories.Repository, log logging.Logger) SyncService {
	return &syncService{api: api, repo: repo, log: log}
}

func (s *syncService) SyncPending(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	pending, err := s.repo.GetByStatus(ctx, models.SyncPending)
	if err != nil {
		return result, fmt.Errorf("failed to load pending stories: %w", err)
	}
	if len(pending) == 0 {
		// deliberate fast path: nothing to do, the network is not touched
		return result, nil
	}

	s.log.Info(ctx, "sync pass started", "pending", len(pending))

	// Stories are uploaded sequentially: the local store has a single
	// writer and the server is not hammered with parallel uploads.
	for _, story := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.syncOne(ctx, &story); err != nil {
			s.log.Warn(ctx, "story sync failed", "id", story.ID, "error", err)
			if _, terr := s.repo.TransitionStatus(ctx, story.ID, models.SyncPending, models.SyncFailed); terr != nil {
				s.log.Error(ctx, "failed to mark story as failed", "id", story.ID, "error", terr)
			}
			result.Failed++
			continue
		}
		result.Synced++
	}

	s.log.Info(ctx, "sync pass finished", "synced", result.Synced, "failed", result.Failed)
	return result, nil
}

func (s *syncService) syncOne(ctx context.Context, story *models.Story) error {
	photo, _, err := utils.DecodePhotoDataURL(story.PhotoURL)
	if err != nil {
		return err
	}

	req := client.NewStoryRequest{
		Description: story.Description,
		Photo:       photo,
		Lat:         story.Lat,
		Lon:         story.Lon,
	}
	if err := s.api.PostStory(ctx, req); err != nil {
		return err
	}

	moved, err := s.repo.TransitionStatus(ctx, story.ID, models.SyncPending, models.SyncSynced)
	if err != nil {
		return fmt.Errorf("uploaded but failed to mark as synced: %w", err)
	}
	if !moved {
		// the story left pending status mid-pass, nothing more to do
		s.log.Warn(ctx, "story no longer pending after upload", "id", story.ID)
	}
	return nil
}
