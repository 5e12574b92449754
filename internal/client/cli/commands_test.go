package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/sharestory/internal/client/client"
	"github.com/dmitrijs2005/sharestory/internal/client/config"
	"github.com/dmitrijs2005/sharestory/internal/client/controller"
	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/client/session"
	"github.com/dmitrijs2005/sharestory/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeAPI struct {
	postCalls int
}

func (f *fakeAPI) PostStory(context.Context, client.NewStoryRequest) error {
	f.postCalls++
	return nil
}

func (f *fakeAPI) GetStories(context.Context) ([]models.Story, error) { return nil, nil }

func (f *fakeAPI) GetStoryByID(context.Context, string) (*models.Story, error) { return nil, nil }

func (f *fakeAPI) Login(context.Context, string, string) (*client.LoginResult, error) {
	return nil, nil
}

func (f *fakeAPI) Register(context.Context, string, string, string) error { return nil }

var _ client.Client = (*fakeAPI)(nil)

func newTestApp(t *testing.T, api client.Client) *App {
	t.Helper()

	cfg := &config.Config{
		APIBaseURL:     "http://unused",
		DatabasePath:   filepath.Join(t.TempDir(), "stories.db"),
		RequestTimeout: 5 * time.Second,
	}
	sess := &session.Session{}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctrl := controller.NewWithClient(cfg, sess, api, log)
	res := ctrl.Init(context.Background())
	require.True(t, res.Success, "init failed: %s", res.Error)
	t.Cleanup(func() { _ = ctrl.Close() })

	return &App{
		config: cfg,
		ctrl:   ctrl,
		sess:   sess,
		reader: bufio.NewReader(strings.NewReader("")),
	}
}

func bearerToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestList_MarksLocalOnlyStories(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, &fakeAPI{})
	ctx := context.Background()

	saved := a.ctrl.SaveStory(ctx, models.Draft{
		Description: "written offline",
		Photo:       []byte{0xff, 0xd8, 0xff},
	})
	require.True(t, saved.Success)

	remote := models.Story{
		ID:          "story-remote-1",
		Name:        "dimka",
		Description: "fetched from the server",
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
	}
	require.True(t, a.ctrl.SaveStoriesFromAPI(ctx, []models.Story{remote}).Success)

	require.NoError(t, a.List(ctx))

	var localLine, remoteLine string
	for _, line := range *out {
		if strings.Contains(line, saved.Story.ID) {
			localLine = line
		}
		if strings.Contains(line, remote.ID) {
			remoteLine = line
		}
	}
	require.NotEmpty(t, localLine)
	require.NotEmpty(t, remoteLine)
	assert.Contains(t, localLine, "(local)")
	assert.NotContains(t, remoteLine, "(local)")
}

func TestSync_SkipsWhenSessionExpired(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)
	ctx := context.Background()

	saved := a.ctrl.SaveStory(ctx, models.Draft{
		Description: "pending upload",
		Photo:       []byte{0xff, 0xd8, 0xff},
	})
	require.True(t, saved.Success)

	a.sess.Username = "dimka"
	a.sess.Token = bearerToken(t, time.Now().Add(-time.Hour))

	require.NoError(t, a.Sync(ctx))

	assert.Equal(t, 0, api.postCalls, "expired session must not reach the API")
	assert.Contains(t, strings.Join(*out, "\n"), "session expired")
}

func TestSync_RunsWithValidToken(t *testing.T) {
	captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)
	ctx := context.Background()

	saved := a.ctrl.SaveStory(ctx, models.Draft{
		Description: "pending upload",
		Photo:       []byte{0xff, 0xd8, 0xff},
	})
	require.True(t, saved.Success)

	a.sess.Username = "dimka"
	a.sess.Token = bearerToken(t, time.Now().Add(time.Hour))

	require.NoError(t, a.Sync(ctx))

	assert.Equal(t, 1, api.postCalls)
}

func TestStatus(t *testing.T) {
	a := newTestApp(t, &fakeAPI{})

	assert.Equal(t, "offline", a.status())

	a.sess.Username = "dimka"
	a.sess.Token = bearerToken(t, time.Now().Add(time.Hour))
	assert.Equal(t, "dimka", a.status())

	a.sess.Token = bearerToken(t, time.Now().Add(-time.Hour))
	assert.Equal(t, "session expired", a.status())
}
