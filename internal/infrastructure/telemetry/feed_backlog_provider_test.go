package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFeedBacklogProvider(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE falabella_feeds (
		id integer primary key,
		feed_id text,
		status text,
		action text,
		deleted_at datetime
	)`).Error)

	rows := []struct {
		feedID, status, action string
		deleted                bool
	}{
		{"f-1", "Queued", "ProductCreate", false},
		{"f-2", "Processing", "ProductCreate", false},
		{"f-3", "Finished", "ProductCreate", false},
		{"f-4", "Processing", "Image", false},
		{"f-5", "Error", "Image", false},
		{"f-6", "Queued", "ProductUpdate", true},
		{"f-7", "Canceled", "ProductRemove", false},
	}
	for _, r := range rows {
		deletedAt := any(nil)
		if r.deleted {
			deletedAt = "2024-01-01 00:00:00"
		}
		require.NoError(t, db.Exec(
			"INSERT INTO falabella_feeds (feed_id, status, action, deleted_at) VALUES (?, ?, ?, ?)",
			r.feedID, r.status, r.action, deletedAt).Error)
	}

	counts, err := NewGormFeedBacklogProvider(db).CountIncompleteByAction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"ProductCreate": 2, "Image": 1}, counts)
}
