package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/sharestory/internal/client/client"
	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/client/repositories/stories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements client.Client; postFn decides the outcome per call.
type fakeAPI struct {
	postFn    func(req client.NewStoryRequest) error
	postCalls []client.NewStoryRequest
}

func (f *fakeAPI) PostStory(_ context.Context, req client.NewStoryRequest) error {
	f.postCalls = append(f.postCalls, req)
	if f.postFn != nil {
		return f.postFn(req)
	}
	return nil
}

func (f *fakeAPI) GetStories(context.Context) ([]models.Story, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) GetStoryByID(context.Context, string) (*models.Story, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) Login(context.Context, string, string) (*client.LoginResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) Register(context.Context, string, string, string) error {
	return errors.New("not implemented")
}

var _ client.Client = (*fakeAPI)(nil)

func seedPending(t *testing.T, repo stories.Repository, id, description string) {
	t.Helper()
	require.NoError(t, repo.Put(context.Background(), &models.Story{
		ID:          id,
		Description: description,
		PhotoURL:    "data:image/jpeg;base64,aGVsbG8=", // "hello"
		CreatedAt:   time.Now().UTC(),
		SyncStatus:  models.SyncPending,
	}))
}

func TestSyncPending_NoPendingIsNoop(t *testing.T) {
	repo := setupRepo(t)
	api := &fakeAPI{}
	svc := NewSyncService(api, repo, nopLogger())

	got, err := svc.SyncPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, got)
	assert.Empty(t, api.postCalls, "empty pass must not contact the API")
}

func TestSyncPending_AllSucceed(t *testing.T) {
	repo := setupRepo(t)
	api := &fakeAPI{}
	svc := NewSyncService(api, repo, nopLogger())
	ctx := context.Background()

	seedPending(t, repo, "local-1", "one")
	seedPending(t, repo, "local-2", "two")

	got, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Synced: 2, Failed: 0}, got)
	require.Len(t, api.postCalls, 2)
	assert.Equal(t, []byte("hello"), api.postCalls[0].Photo)

	for _, id := range []string{"local-1", "local-2"} {
		s, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.SyncSynced, s.SyncStatus, "story %s", id)
	}
}

func TestSyncPending_OneFailureDoesNotAbortBatch(t *testing.T) {
	repo := setupRepo(t)
	api := &fakeAPI{postFn: func(req client.NewStoryRequest) error {
		if req.Description == "two" {
			return errors.New("server exploded")
		}
		return nil
	}}
	svc := NewSyncService(api, repo, nopLogger())
	ctx := context.Background()

	seedPending(t, repo, "local-1", "one")
	seedPending(t, repo, "local-2", "two")
	seedPending(t, repo, "local-3", "three")

	got, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Synced: 2, Failed: 1}, got)

	wantStatus := map[string]models.SyncStatus{
		"local-1": models.SyncSynced,
		"local-2": models.SyncFailed,
		"local-3": models.SyncSynced,
	}
	for id, want := range wantStatus {
		s, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, s.SyncStatus, "story %s", id)
	}
}

func TestSyncPending_SecondPassIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	api := &fakeAPI{}
	svc := NewSyncService(api, repo, nopLogger())
	ctx := context.Background()

	seedPending(t, repo, "local-1", "one")

	got, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Synced: 1}, got)

	api.postCalls = nil
	got, err = svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, got)
	assert.Empty(t, api.postCalls)
}

func TestSyncPending_FailedStoriesAreNotAutoRetried(t *testing.T) {
	repo := setupRepo(t)
	api := &fakeAPI{}
	svc := NewSyncService(api, repo, nopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &models.Story{
		ID:          "failed-1",
		Description: "was rejected before",
		PhotoURL:    "data:image/jpeg;base64,aGk=",
		CreatedAt:   time.Now().UTC(),
		SyncStatus:  models.SyncFailed,
	}))

	got, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, got)
	assert.Empty(t, api.postCalls)

	s, err := repo.Get(ctx, "failed-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, s.SyncStatus)
}

func TestSyncPending_UndecodablePhotoCountsAsFailed(t *testing.T) {
	repo := setupRepo(t)
	api := &fakeAPI{}
	svc := NewSyncService(api, repo, nopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &models.Story{
		ID:          "local-1",
		Description: "corrupt photo",
		PhotoURL:    "https://example.com/not-a-data-url.jpg",
		CreatedAt:   time.Now().UTC(),
		SyncStatus:  models.SyncPending,
	}))

	got, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Failed: 1}, got)
	assert.Empty(t, api.postCalls, "undecodable story must not reach the API")

	s, err := repo.Get(ctx, "local-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, s.SyncStatus)
}

func TestSyncPending_CancelledBetweenStories(t *testing.T) {
	repo := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	api := &fakeAPI{postFn: func(client.NewStoryRequest) error {
		cancel() // cancel after the first upload completes
		return nil
	}}
	svc := NewSyncService(api, repo, nopLogger())

	seedPending(t, repo, "local-1", "one")
	seedPending(t, repo, "local-2", "two")

	got, err := svc.SyncPending(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, SyncResult{Synced: 1}, got)
	assert.Len(t, api.postCalls, 1, "in-flight story finishes, the next is not started")
}
