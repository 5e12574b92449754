package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/sharestory/internal/client/controller"
	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/client/services"
)

func printResult(res controller.Result) {
	if res.Success {
		printlnFn(res.Message)
		return
	}
	printlnFn("error: " + res.Error)
}

func (a *App) List(ctx context.Context) error {
	res := a.ctrl.GetStories(ctx, services.ListOptions{})
	if !res.Success {
		printResult(res.Result)
		return nil
	}
	if len(res.Stories) == 0 {
		printlnFn("No stories yet")
		return nil
	}
	for _, s := range res.Stories {
		line := fmt.Sprintf("[%s] %s  %s — %s", s.SyncStatus, s.CreatedAt.Format("2006-01-02 15:04"), s.ID, s.Description)
		if s.LocalOnly() {
			line += "  (local)"
		}
		printlnFn(line)
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Story id", os.Stdout)
	if err != nil {
		return err
	}
	res := a.ctrl.GetStoryByID(ctx, id)
	if !res.Success {
		printResult(res.Result)
		return nil
	}
	s := res.Story
	printlnFn(fmt.Sprintf("id:          %s", s.ID))
	printlnFn(fmt.Sprintf("author:      %s", s.Name))
	printlnFn(fmt.Sprintf("created at:  %s", s.CreatedAt.Format("2006-01-02 15:04:05")))
	printlnFn(fmt.Sprintf("status:      %s", s.SyncStatus))
	printlnFn(fmt.Sprintf("description: %s", s.Description))
	if s.HasLocation() {
		printlnFn(fmt.Sprintf("location:    %f, %f", *s.Lat, *s.Lon))
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	description, err := GetSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}

	path, err := GetSimpleText(a.reader, "Photo file", os.Stdout)
	if err != nil {
		return err
	}
	photo, err := os.ReadFile(path)
	if err != nil {
		printlnFn("cannot read photo: " + err.Error())
		return nil
	}

	lat, err := GetOptionalFloat(a.reader, "Latitude (empty to skip)", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return nil
	}
	var lon *float64
	if lat != nil {
		lon, err = GetOptionalFloat(a.reader, "Longitude", os.Stdout)
		if err != nil {
			printlnFn(err.Error())
			return nil
		}
		if lon == nil {
			printlnFn("longitude is required when latitude is given")
			return nil
		}
	}

	draft := models.Draft{
		Description: description,
		Photo:       photo,
		PhotoMIME:   mime.TypeByExtension(filepath.Ext(path)),
		Lat:         lat,
		Lon:         lon,
	}

	res := a.ctrl.SaveStory(ctx, draft)
	printResult(res.Result)
	if res.Success {
		printlnFn("id: " + res.Story.ID)
	}
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if a.sessionExpired() {
		printlnFn("session expired: login again before syncing")
		return nil
	}
	out := a.ctrl.SyncPendingStories(ctx)
	printResult(out.Result)
	return nil
}

func (a *App) Retry(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Story id", os.Stdout)
	if err != nil {
		return err
	}
	printResult(a.ctrl.RetryFailedSync(ctx, id))
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Story id", os.Stdout)
	if err != nil {
		return err
	}
	printResult(a.ctrl.DeleteStory(ctx, id))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	res := a.ctrl.RefreshFromRemote(ctx)
	printResult(res.Result)
	if res.Success {
		printlnFn(fmt.Sprintf("%d stories in local storage", len(res.Stories)))
	}
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	printResult(a.ctrl.Login(ctx, email, password))
	return nil
}

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	printResult(a.ctrl.Register(ctx, name, email, password))
	return nil
}

func (a *App) Logout(context.Context) error {
	printResult(a.ctrl.Logout())
	return nil
}
