package stories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/common"
	"github.com/dmitrijs2005/sharestory/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const storyColumns = `id, name, description, photo_url, lat, lon, created_at, sync_status`

// CreatedAt is stored as RFC 3339 UTC text so lexicographic and chronological
// order agree.
func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func scanStory(row interface{ Scan(dest ...any) error }) (*models.Story, error) {
	var (
		s         models.Story
		lat, lon  sql.NullFloat64
		createdAt string
		status    string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.PhotoURL, &lat, &lon, &createdAt, &status); err != nil {
		return nil, err
	}
	if lat.Valid {
		s.Lat = &lat.Float64
	}
	if lon.Valid {
		s.Lon = &lon.Float64
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("malformed created_at for story %s: %w", s.ID, err)
	}
	s.CreatedAt = ts
	s.SyncStatus = models.SyncStatus(status)
	return &s, nil
}

// Put upserts a story by id. The sync_status index is maintained by the engine
// within the same statement, so the primary row and the index never diverge.
func (r *SQLiteRepository) Put(ctx context.Context, story *models.Story) error {
	query := ` INSERT INTO stories (id, name, description, photo_url, lat, lon, created_at, sync_status)
			values (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				description = excluded.description,
				photo_url = excluded.photo_url,
				lat = excluded.lat,
				lon = excluded.lon,
				created_at = excluded.created_at,
				sync_status = excluded.sync_status
	`
	var lat, lon any
	if story.Lat != nil {
		lat = *story.Lat
	}
	if story.Lon != nil {
		lon = *story.Lon
	}
	_, err := r.db.ExecContext(ctx, query,
		story.ID, story.Name, story.Description, story.PhotoURL,
		lat, lon, formatCreatedAt(story.CreatedAt), string(story.SyncStatus))
	if err != nil {
		return fmt.Errorf("failed to upsert story: %w", err)
	}
	return nil
}

// Get returns a single story by id, or common.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Story, error) {
	query := `select ` + storyColumns + ` from stories where id = ?`
	s, err := scanStory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select story: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) queryStories(ctx context.Context, query string, args ...any) ([]models.Story, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select stories: %w", err)
	}
	defer rows.Close()

	var result []models.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll lists every story in rowid (insertion) order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Story, error) {
	return r.queryStories(ctx, `select `+storyColumns+` from stories`)
}

// GetByStatus lists stories with the given sync status via the
// idx_stories_sync_status index.
func (r *SQLiteRepository) GetByStatus(ctx context.Context, status models.SyncStatus) ([]models.Story, error) {
	return r.queryStories(ctx, `select `+storyColumns+` from stories where sync_status = ?`, string(status))
}

// TransitionStatus performs a conditional status update. The guard lives in
// the WHERE clause, so a concurrent writer can never observe a half-applied
// transition.
func (r *SQLiteRepository) TransitionStatus(ctx context.Context, id string, from, to models.SyncStatus) (bool, error) {
	query := `update stories set sync_status = ? where id = ? and sync_status = ?`
	res, err := r.db.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to update sync status: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra > 0, nil
}

// Delete removes a story and reports whether it existed.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `delete from stories where id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete story: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra > 0, nil
}

// Clear removes all stories. Administrative/test operation.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from stories`); err != nil {
		return fmt.Errorf("failed to clear stories: %w", err)
	}
	return nil
}
