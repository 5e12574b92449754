// Package controller is the single entry point presentation code talks to.
// Every operation returns a result value with a Success flag and a
// human-readable message; no error, and no panic from the layers below, ever
// crosses this boundary.
package controller

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sharestory/internal/client/client"
	"github.com/dmitrijs2005/sharestory/internal/client/config"
	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/client/repositories/stories"
	"github.com/dmitrijs2005/sharestory/internal/client/services"
	"github.com/dmitrijs2005/sharestory/internal/client/session"
	"github.com/dmitrijs2005/sharestory/internal/common"
	"github.com/dmitrijs2005/sharestory/internal/logging"
)

// Result is the uniform outcome shape of every facade operation.
type Result struct {
	Success bool
	Message string
	Error   string
}

// StoryResult carries a single story alongside the outcome.
type StoryResult struct {
	Result
	Story *models.Story
}

// StoriesResult carries a story listing alongside the outcome.
type StoriesResult struct {
	Result
	Stories []models.Story
}

// SyncOutcome carries the counters of one sync pass.
type SyncOutcome struct {
	Result
	Synced int
	Failed int
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

const notInitializedMsg = "local store is not initialized"

// Controller wires the story service, the sync engine and the API client
// behind the uniform result shape.
type Controller struct {
	cfg  *config.Config
	sess *session.Session
	api  client.Client
	log  logging.Logger

	db      *sql.DB
	stories services.StoryService
	syncer  services.SyncService
}

// New builds a Controller talking to the real HTTP API. Init must be called
// before any other operation.
func New(cfg *config.Config, sess *session.Session, log logging.Logger) *Controller {
	api := client.NewHTTPClient(cfg.APIBaseURL, sess, cfg.RequestTimeout)
	return NewWithClient(cfg, sess, api, log)
}

// NewWithClient is New with an injected API client.
func NewWithClient(cfg *config.Config, sess *session.Session, api client.Client, log logging.Logger) *Controller {
	return &Controller{cfg: cfg, sess: sess, api: api, log: log}
}

func (c *Controller) initialized() bool {
	return c.db != nil
}

// Init opens the local store and wires the services. Calling it twice is
// harmless. Storage unavailability is the one failure the UI must treat as
// fatal: there is no degraded store-less mode.
func (c *Controller) Init(ctx context.Context) Result {
	if c.initialized() {
		return ok("local storage ready")
	}

	db, err := InitDatabase(ctx, c.cfg.DatabasePath)
	if err != nil {
		c.log.Error(ctx, "failed to initialize local storage", "error", err)
		return failure(err)
	}

	repo := stories.NewSQLiteRepository(db)
	c.db = db
	c.stories = services.NewStoryService(repo, c.log)
	c.syncer = services.NewSyncService(c.api, repo, c.log)

	return ok("local storage ready")
}

// Close releases the local store. The controller must be re-initialized
// before further use.
func (c *Controller) Close() error {
	if !c.initialized() {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.stories = nil
	c.syncer = nil
	return err
}

// SaveStory persists an offline-authored draft as a pending story.
func (c *Controller) SaveStory(ctx context.Context, draft models.Draft) StoryResult {
	if !c.initialized() {
		return StoryResult{Result: Result{Error: notInitializedMsg}}
	}

	story, err := c.stories.SaveLocal(ctx, c.sess, draft)
	if err != nil {
		return StoryResult{Result: failure(err)}
	}
	return StoryResult{Result: ok("story saved to local storage"), Story: story}
}

// GetStories lists locally stored stories, newest first, optionally filtered
// by sync status.
func (c *Controller) GetStories(ctx context.Context, opts services.ListOptions) StoriesResult {
	if !c.initialized() {
		return StoriesResult{Result: Result{Error: notInitializedMsg}, Stories: []models.Story{}}
	}

	list := c.stories.List(ctx, opts)
	return StoriesResult{Result: ok("stories fetched"), Stories: list}
}

// GetStoryByID returns a single stored story.
func (c *Controller) GetStoryByID(ctx context.Context, id string) StoryResult {
	if !c.initialized() {
		return StoryResult{Result: Result{Error: notInitializedMsg}}
	}

	story, err := c.stories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return StoryResult{Result: Result{Error: "story not found"}}
		}
		return StoryResult{Result: failure(err)}
	}
	return StoryResult{Result: ok("story found"), Story: story}
}

// DeleteStory removes a story from the local store.
func (c *Controller) DeleteStory(ctx context.Context, id string) Result {
	if !c.initialized() {
		return Result{Error: notInitializedMsg}
	}

	existed, err := c.stories.Delete(ctx, id)
	if err != nil {
		return failure(err)
	}
	if !existed {
		return Result{Error: "story not found"}
	}
	return ok("story deleted")
}

// SyncPendingStories runs one sync pass over all pending stories.
func (c *Controller) SyncPendingStories(ctx context.Context) SyncOutcome {
	if !c.initialized() {
		return SyncOutcome{Result: Result{Error: notInitializedMsg}}
	}

	hasPending, err := c.stories.HasPending(ctx)
	if err != nil {
		return SyncOutcome{Result: failure(err)}
	}
	if !hasPending {
		return SyncOutcome{Result: ok("nothing to sync")}
	}

	res, err := c.syncer.SyncPending(ctx)
	outcome := SyncOutcome{Synced: res.Synced, Failed: res.Failed}
	if err != nil {
		outcome.Result = failure(err)
		return outcome
	}
	outcome.Result = ok(fmt.Sprintf("sync finished: %d synced, %d failed", res.Synced, res.Failed))
	return outcome
}

// RetryFailedSync marks a failed story for another sync attempt.
func (c *Controller) RetryFailedSync(ctx context.Context, id string) Result {
	if !c.initialized() {
		return Result{Error: notInitializedMsg}
	}

	moved, err := c.stories.RetryFailed(ctx, id)
	if err != nil {
		return failure(err)
	}
	if !moved {
		return Result{Error: "story not found or not in failed status"}
	}
	return ok("story marked for resync")
}

// SaveStoriesFromAPI imports already-synced stories into the local store.
func (c *Controller) SaveStoriesFromAPI(ctx context.Context, remote []models.Story) Result {
	if !c.initialized() {
		return Result{Error: notInitializedMsg}
	}

	if err := c.stories.ImportFromRemote(ctx, remote); err != nil {
		return failure(err)
	}
	return ok("stories saved to local storage")
}

// RefreshFromRemote fetches the remote story list, imports it, and returns
// the refreshed local listing.
func (c *Controller) RefreshFromRemote(ctx context.Context) StoriesResult {
	if !c.initialized() {
		return StoriesResult{Result: Result{Error: notInitializedMsg}, Stories: []models.Story{}}
	}

	remote, err := c.api.GetStories(ctx)
	if err != nil {
		return StoriesResult{Result: failure(err), Stories: c.stories.ListAll(ctx)}
	}
	if err := c.stories.ImportFromRemote(ctx, remote); err != nil {
		return StoriesResult{Result: failure(err), Stories: c.stories.ListAll(ctx)}
	}
	return StoriesResult{Result: ok("stories refreshed"), Stories: c.stories.ListAll(ctx)}
}

// Login authenticates against the remote API and stores the issued identity
// in the session.
func (c *Controller) Login(ctx context.Context, email, password string) Result {
	res, err := c.api.Login(ctx, email, password)
	if err != nil {
		return failure(err)
	}
	c.sess.Username = res.Name
	c.sess.Token = res.Token
	return ok("logged in as " + res.Name)
}

// Register creates an account on the remote API.
func (c *Controller) Register(ctx context.Context, name, email, password string) Result {
	if err := c.api.Register(ctx, name, email, password); err != nil {
		return failure(err)
	}
	return ok("account created")
}

// Logout clears the session.
func (c *Controller) Logout() Result {
	c.sess.Username = ""
	c.sess.Token = ""
	return ok("logged out")
}
