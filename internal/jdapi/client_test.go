package jdapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPageSendsLimitOffsetBody(t *testing.T) {
	var gotBody map[string]int
	var gotMethod, gotContentType, gotRequestID string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"jdList":[],"totalCount":0}`))
	})

	_, err := NewClient(srv.URL).FetchPage(context.Background(), 3, 10)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, map[string]int{"limit": 10, "offset": 20}, gotBody)
}

func TestFetchPageDecodesJobRecords(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"jdList": [
				{"jdUid":"a","companyName":"Acme","jobRole":"backend","location":"remote","logoUrl":"https://logo/a.png",
				 "jobDetailsFromCompany":"We build things.","minExp":2,"minJdSalary":40,"maxJdSalary":70,
				 "salaryCurrencyCode":"USD","isRemote":true,"techStack":"go, postgres"},
				{"jdUid":"b","companyName":"Globex","minExp":null,"minJdSalary":null,"maxJdSalary":90}
			],
			"totalCount": 947
		}`))
	})

	page, err := NewClient(srv.URL).FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Jobs, 2)
	assert.Equal(t, 947, page.TotalCount)

	a := page.Jobs[0]
	assert.Equal(t, "a", a.JdUID)
	assert.Equal(t, "Acme", a.CompanyName)
	assert.Equal(t, 2, a.MinExp)
	require.NotNil(t, a.MinJdSalary)
	assert.Equal(t, 40.0, *a.MinJdSalary)
	assert.True(t, a.IsRemote)
	assert.Equal(t, "go, postgres", a.TechStack)

	b := page.Jobs[1]
	assert.Equal(t, 0, b.MinExp)
	assert.Nil(t, b.MinJdSalary, "null salary means not disclosed")
	require.NotNil(t, b.MaxJdSalary)
}

func TestFetchPageEmptyListIsSuccess(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jdList":[]}`))
	})

	page, err := NewClient(srv.URL).FetchPage(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Jobs)
}

func TestFetchPageDropsRecordsWithoutIdentity(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jdList":[{"jdUid":""},{"jdUid":"ok"},{"companyName":"x"}]}`))
	})

	page, err := NewClient(srv.URL).FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "ok", page.Jobs[0].JdUID)
	assert.Equal(t, 3, page.Received, "dropped records still count as received")
}

func TestFetchPageFailuresAreFetchErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"jdList":[`))
		},
		"missing list": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":[]}`))
		},
		"not an object": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[1,2,3]`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, handler)
			_, err := NewClient(srv.URL).FetchPage(context.Background(), 2, 10)
			require.Error(t, err)

			var fe *FetchError
			require.True(t, errors.As(err, &fe), "expected *FetchError, got %T", err)
			assert.Equal(t, 2, fe.Page)
			assert.Contains(t, err.Error(), "fetch page 2")
		})
	}
}

func TestFetchPageTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).FetchPage(context.Background(), 1, 10)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Page)
}

func TestFetchPageMakesOneAttempt(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := NewClient(srv.URL).FetchPage(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchPageRejectsInvalidArguments(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	_, err := c.FetchPage(context.Background(), 0, 10)
	assert.Error(t, err)
	_, err = c.FetchPage(context.Background(), 1, 0)
	assert.Error(t, err)
}

func TestFetchPageHonoursCancelledContext(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jdList":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, WithMinInterval(time.Hour)).FetchPage(ctx, 1, 10)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("  ")
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
	assert.Equal(t, DefaultUserAgent, c.userAgent)

	c = NewClient("http://example.test", WithUserAgent("custom/1"), WithTimeout(time.Second))
	assert.Equal(t, "custom/1", c.userAgent)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestWithTimeoutKeepsCustomHTTPClient(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jdList":[]}`))
	})
	transport := &countingTransport{}

	c := NewClient(srv.URL, WithHTTPClient(&http.Client{Transport: transport}), WithTimeout(5*time.Second))
	_, err := c.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int32(1), transport.calls.Load())
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}
