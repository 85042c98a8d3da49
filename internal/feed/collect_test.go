package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-board/internal/jdapi"
	"job-board/internal/model"
)

func TestCollectStopsAtEmptyPage(t *testing.T) {
	fetcher := &scriptedFetcher{pages: map[int][]model.Job{
		1: {job("a", 0), job("b", 0)},
		2: {job("c", 0)},
	}}

	f, err := Collect(context.Background(), fetcher, CollectOptions{PageSize: 2})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fetcher.calls)
	assert.False(t, fetcher.overlap)
	assert.Equal(t, []string{"a", "b", "c"}, jobIDs(f.Jobs()))
	assert.True(t, f.Stats().EndReached)
	assert.True(t, f.Closed())
}

func TestCollectHonoursMaxPages(t *testing.T) {
	fetcher := &scriptedFetcher{pages: map[int][]model.Job{
		1: {job("a", 0)},
		2: {job("b", 0)},
		3: {job("c", 0)},
	}}

	f, err := Collect(context.Background(), fetcher, CollectOptions{PageSize: 1, MaxPages: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, fetcher.calls)
	assert.Equal(t, []string{"a", "b"}, jobIDs(f.Jobs()))
}

func TestCollectStopsAtFirstFailure(t *testing.T) {
	fetcher := &scriptedFetcher{
		pages: map[int][]model.Job{1: {job("a", 0)}, 3: {job("c", 0)}},
		errs:  map[int]error{2: errNetwork},
	}

	f, err := Collect(context.Background(), fetcher, CollectOptions{PageSize: 1})
	assert.ErrorIs(t, err, errNetwork)
	assert.Equal(t, []int{1, 2}, fetcher.calls)
	assert.Equal(t, []string{"a"}, jobIDs(f.Jobs()))
	assert.Equal(t, model.PhaseFailed, f.State().Phase)
}

func TestCollectStopsWhenContextCancelled(t *testing.T) {
	fetcher := &scriptedFetcher{pages: map[int][]model.Job{1: {job("a", 0)}, 2: {job("b", 0)}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, fetcher, CollectOptions{PageSize: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{1}, fetcher.calls)
}

func TestCollectContinuesPastPageOfDroppedRecords(t *testing.T) {
	fetcher := &scriptedFetcher{
		pages:    map[int][]model.Job{1: {job("a", 0)}, 3: {job("c", 0)}},
		received: map[int]int{2: 1},
	}

	f, err := Collect(context.Background(), fetcher, CollectOptions{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, fetcher.calls)
	assert.Equal(t, []string{"a", "c"}, jobIDs(f.Jobs()))
}

func TestCollectAgainstGatewayWithInvalidRecords(t *testing.T) {
	pages := map[int]string{
		0: `{"jdList":[{"jdUid":"a"},{"jdUid":"b"}]}`,
		2: `{"jdList":[{"companyName":"no id"},{"jdUid":""}]}`,
		4: `{"jdList":[{"jdUid":"c"}]}`,
	}
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var body struct {
			Offset int `json:"offset"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		payload, ok := pages[body.Offset]
		if !ok {
			payload = `{"jdList":[]}`
		}
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	f, err := Collect(context.Background(), jdapi.NewClient(srv.URL), CollectOptions{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, requests)
	assert.Equal(t, []string{"a", "b", "c"}, jobIDs(f.Jobs()))

	st := f.Stats()
	assert.True(t, st.EndReached)
	assert.Equal(t, 5, st.Received)
	assert.Equal(t, 4, st.PagesLoaded)
}
