// Package models defines client-side data models used by the ShareStory
// application.
package models

import "time"

// SyncStatus is the lifecycle tag of a locally stored story.
type SyncStatus string

const (
	// SyncPending marks a locally authored story awaiting upload.
	SyncPending SyncStatus = "pending"

	// SyncSynced marks a story confirmed on the server. Terminal: no code
	// path moves a story out of this status.
	SyncSynced SyncStatus = "synced"

	// SyncFailed marks a story whose upload was attempted and rejected.
	// Only an explicit retry moves it back to SyncPending.
	SyncFailed SyncStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSynced, SyncFailed:
		return true
	}
	return false
}

// Story is one persisted story (local or remote-origin) with sync metadata.
type Story struct {
	// ID is unique across the store. Remote-origin stories keep the
	// server-assigned id; locally authored ones get a "local-" prefixed id.
	ID string

	// Name is the author display name.
	Name string

	// Description is the story text, non-empty at creation.
	Description string

	// PhotoURL is either a remote URL or a base64 data-URL holding the
	// image bytes of an offline-authored story. The two forms are
	// interchangeable at the storage level.
	PhotoURL string

	// Lat and Lon are optional coordinates; both set or both nil.
	Lat *float64
	Lon *float64

	// CreatedAt uses the client clock for local stories and the server
	// clock for imported ones.
	CreatedAt time.Time

	SyncStatus SyncStatus
}

// LocalOnly reports whether the story exists only in local storage and has
// not been accepted by the server yet.
func (s *Story) LocalOnly() bool {
	return s.SyncStatus != SyncSynced
}

// HasLocation reports whether both coordinates are present.
func (s *Story) HasLocation() bool {
	return s.Lat != nil && s.Lon != nil
}

// Draft is the user-authored part of a story before it is persisted.
type Draft struct {
	Description string

	// Photo holds the captured image bytes; PhotoMIME its content type
	// (defaults to image/jpeg when empty).
	Photo     []byte
	PhotoMIME string

	Lat *float64
	Lon *float64
}
