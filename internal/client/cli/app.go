// Package cli is the interactive terminal front end of the ShareStory
// client. It talks exclusively to the controller facade.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/sharestory/internal/client/config"
	"github.com/dmitrijs2005/sharestory/internal/client/controller"
	"github.com/dmitrijs2005/sharestory/internal/client/session"
	"github.com/dmitrijs2005/sharestory/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	ctrl   *controller.Controller
	sess   *session.Session
	reader *bufio.Reader
}

func NewApp(c *config.Config) *App {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	sess := &session.Session{}

	return &App{
		config: c,
		ctrl:   controller.New(c, sess, log),
		sess:   sess,
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) error {
	if res := a.ctrl.Init(ctx); !res.Success {
		return fmt.Errorf("cannot start without local storage: %s", res.Error)
	}
	defer a.ctrl.Close()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.sess.Authenticated()
}

// sessionExpired reports whether the user logged in earlier but the token's
// exp claim has since passed. Anonymous sessions are never expired.
func (a *App) sessionExpired() bool {
	return a.sess.Authenticated() && a.sess.TokenExpired(time.Now())
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "offline"
	}
	if a.sessionExpired() {
		return "session expired"
	}
	return a.sess.DisplayName()
}
