// Package feed owns the accumulated job list and its pagination state.
//
// A Feed is driven by two events: a page completing and the scroll trigger
// asking for more. It never performs I/O itself. New and Advance hand back a
// Request; the caller runs it (see Fetch) and feeds the Result to Complete.
// At most one Request is outstanding at any time and pages are requested
// 1, 2, 3, ... without gaps.
package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"job-board/internal/filter"
	"job-board/internal/model"
)

const DefaultPageSize = 10

// Fetcher is satisfied by *jdapi.Client.
type Fetcher interface {
	FetchPage(ctx context.Context, page, pageSize int) (model.Page, error)
}

// Request identifies one page fetch issued by a feed session.
type Request struct {
	Session  string
	Page     int
	PageSize int
}

type Result struct {
	Request Request
	Jobs    []model.Job
	// Received is how many records the server sent. Zero falls back to
	// len(Jobs).
	Received   int
	TotalCount int
	Err        error
}

type Stats struct {
	Loaded      int  `json:"loaded"`
	Received    int  `json:"received"`
	PagesLoaded int  `json:"pages_loaded"`
	TotalCount  int  `json:"total_count,omitempty"`
	EndReached  bool `json:"end_reached"`
}

type Feed struct {
	session     string
	pageSize    int
	state       model.Pagination
	jobs        []model.Job
	received    int
	pagesLoaded int
	totalCount  int
	endReached  bool
	closed      bool
}

// New creates a feed and puts it straight into Loading for page 1. The
// returned Request must be run by the caller.
func New(pageSize int) (*Feed, Request) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	f := &Feed{
		session:  uuid.NewString(),
		pageSize: pageSize,
		state:    model.Pagination{Phase: model.PhaseIdle},
		jobs:     []model.Job{},
	}
	f.state.CurrentPage = 1
	f.state.IsLoading = true
	f.state.IsFetching = true
	f.mustTransition(model.PhaseLoading)
	return f, f.request()
}

func (f *Feed) Session() string {
	return f.session
}

func (f *Feed) PageSize() int {
	return f.pageSize
}

// State returns a copy of the pagination state.
func (f *Feed) State() model.Pagination {
	return f.state
}

// Jobs returns the accumulated records in arrival order. Callers must not
// modify the returned slice.
func (f *Feed) Jobs() []model.Job {
	return f.jobs[:len(f.jobs):len(f.jobs)]
}

// Visible applies c to the accumulated list.
func (f *Feed) Visible(c filter.Criteria) []model.Job {
	return filter.Apply(f.jobs, c)
}

func (f *Feed) Stats() Stats {
	return Stats{
		Loaded:      len(f.jobs),
		Received:    f.received,
		PagesLoaded: f.pagesLoaded,
		TotalCount:  f.totalCount,
		EndReached:  f.endReached,
	}
}

func (f *Feed) Closed() bool {
	return f.closed
}

// Advance asks for the next page. It is dropped, not queued, while a page is
// in flight or after Close.
func (f *Feed) Advance() (Request, bool) {
	if f.closed || f.state.Phase.InFlight() {
		return Request{}, false
	}
	if !model.CanTransition(f.state.Phase, model.PhaseFetching) {
		return Request{}, false
	}
	f.state.CurrentPage++
	f.state.IsFetching = true
	f.mustTransition(model.PhaseFetching)
	return f.request(), true
}

// Complete applies the outcome of the in-flight request. Results for another
// session, for a page that is not in flight, or arriving after Close are
// ignored and Complete reports false.
func (f *Feed) Complete(res Result) bool {
	if f.closed || !f.state.Phase.InFlight() {
		return false
	}
	if res.Request.Session != f.session || res.Request.Page != f.state.CurrentPage {
		return false
	}

	f.state.IsLoading = false
	f.state.IsFetching = false
	if res.Err != nil {
		f.state.Err = res.Err
		f.mustTransition(model.PhaseFailed)
		return true
	}

	// Pages are appended as received; overlapping pages are not deduplicated.
	f.jobs = append(f.jobs, res.Jobs...)
	received := max(res.Received, len(res.Jobs))
	f.received += received
	f.pagesLoaded++
	if res.TotalCount > 0 {
		f.totalCount = res.TotalCount
	}
	// Only an empty server page ends the data; a page whose records were all
	// dropped as invalid does not.
	f.endReached = received == 0
	f.state.Err = nil
	f.mustTransition(model.PhaseReady)
	return true
}

// Close tears the feed down. Later completions become no-ops and Advance
// never issues another request.
func (f *Feed) Close() {
	f.closed = true
}

func (f *Feed) request() Request {
	return Request{Session: f.session, Page: f.state.CurrentPage, PageSize: f.pageSize}
}

func (f *Feed) mustTransition(to model.Phase) {
	if err := model.TransitionPhase(&f.state, to); err != nil {
		panic(fmt.Sprintf("feed: %v", err))
	}
}

// Fetch runs req against fetcher and packages the outcome for Complete.
func Fetch(ctx context.Context, fetcher Fetcher, req Request) Result {
	page, err := fetcher.FetchPage(ctx, req.Page, req.PageSize)
	if err != nil {
		return Result{Request: req, Err: err}
	}
	return Result{Request: req, Jobs: page.Jobs, Received: page.Received, TotalCount: page.TotalCount}
}
