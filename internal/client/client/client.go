// Package client talks to the remote ShareStory API. The rest of the client
// only sees the Client interface; the HTTP implementation lives behind it.
package client

import (
	"context"

	"github.com/dmitrijs2005/sharestory/internal/client/models"
)

// NewStoryRequest is the payload of the create-story endpoint. Photo holds
// the binary image bytes reconstructed from the stored data-URL.
type NewStoryRequest struct {
	Description string
	Photo       []byte
	PhotoName   string
	Lat         *float64
	Lon         *float64
}

// LoginResult is the identity issued by the API on successful login.
type LoginResult struct {
	UserID string
	Name   string
	Token  string
}

type Client interface {
	// PostStory submits one story to the remote API. This is the single
	// network call the sync engine depends on.
	PostStory(ctx context.Context, req NewStoryRequest) error

	// GetStories fetches the remote story list. Returned stories carry a
	// zero SyncStatus; the repository assigns synced on import.
	GetStories(ctx context.Context) ([]models.Story, error)

	// GetStoryByID fetches a single remote story.
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)

	// Login authenticates and returns the bearer token for the session.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Register creates an account.
	Register(ctx context.Context, name, email, password string) error
}
