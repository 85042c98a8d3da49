package feed

import (
	"context"

	"github.com/ternarybob/arbor"
)

type CollectOptions struct {
	PageSize int
	MaxPages int // 0 means until an empty page
	Logger   arbor.ILogger
}

// Collect drives a feed without a UI: it fetches page after page until the
// server sends an empty page, MaxPages pages were requested, or a fetch
// fails. The feed is returned in all cases; the error is the failed page's
// FetchError.
func Collect(ctx context.Context, fetcher Fetcher, opts CollectOptions) (*Feed, error) {
	f, req := New(opts.PageSize)
	defer f.Close()

	for {
		res := Fetch(ctx, fetcher, req)
		f.Complete(res)
		if res.Err != nil {
			return f, res.Err
		}
		if opts.Logger != nil {
			opts.Logger.Debug().
				Str("session", f.Session()).
				Int("page", req.Page).
				Int("jobs", len(res.Jobs)).
				Int("loaded", len(f.Jobs())).
				Msg("Collected page")
		}
		if f.Stats().EndReached {
			return f, nil
		}
		if opts.MaxPages > 0 && req.Page >= opts.MaxPages {
			return f, nil
		}
		if err := ctx.Err(); err != nil {
			return f, err
		}

		next, ok := f.Advance()
		if !ok {
			return f, nil
		}
		req = next
	}
}
