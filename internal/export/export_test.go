package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-board/internal/feed"
	"job-board/internal/filter"
	"job-board/internal/model"
)

func TestWriteJSONRoundTripsListing(t *testing.T) {
	f, req := feed.New(2)
	f.Complete(feed.Result{Request: req, TotalCount: 9, Jobs: []model.Job{
		{JdUID: "a", CompanyName: "Acme", IsRemote: true},
		{JdUID: "b", CompanyName: "Globex"},
	}})
	c := filter.Criteria{RemoteOnly: true}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "out", "jobs.json")
	require.NoError(t, WriteJSON(path, NewListing("https://jobs.example.com", f, c, now)))

	got := readListing(t, path)
	assert.Equal(t, SchemaVersion, got.SchemaVersion)
	assert.Equal(t, "2026-03-01T12:00:00Z", got.GeneratedAt)
	assert.Equal(t, 1, got.PagesFetched)
	assert.Equal(t, 2, got.PageSize)
	assert.Equal(t, 1, got.Visible)
	assert.Equal(t, 2, got.Stats.Loaded)
	assert.Equal(t, 9, got.Stats.TotalCount)
	require.Len(t, got.Jobs, 1)
	assert.Equal(t, "a", got.Jobs[0].JdUID)
	assert.True(t, got.Criteria.RemoteOnly)
}

func TestWriteBytesLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.json")
	require.NoError(t, WriteBytes(path, []byte("one")))
	require.NoError(t, WriteBytes(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func readListing(t *testing.T, path string) Listing {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var l Listing
	require.NoError(t, json.Unmarshal(data, &l))
	return l
}

func TestNewListingCountsOnlySuccessfulPages(t *testing.T) {
	f, req := feed.New(1)
	f.Complete(feed.Result{Request: req, Jobs: []model.Job{{JdUID: "a"}}})
	req2, _ := f.Advance()
	f.Complete(feed.Result{Request: req2, Err: errors.New("timeout")})
	req3, _ := f.Advance()
	f.Complete(feed.Result{Request: req3, Jobs: []model.Job{{JdUID: "c"}}})

	l := NewListing("https://jobs.example.com", f, filter.Criteria{}, time.Now())
	assert.Equal(t, 2, l.PagesFetched)
	assert.Equal(t, 2, l.Stats.Loaded)
}
