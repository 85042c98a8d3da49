package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"job-board/internal/export"
	"job-board/internal/feed"
	"job-board/internal/filter"
)

type filterFlags struct {
	minExp    *string
	company   *string
	location  *string
	remote    *bool
	techStack *string
	role      *string
	minPay    *string
}

func bindFilterFlags(fs *flag.FlagSet) *filterFlags {
	return &filterFlags{
		minExp:    fs.String("min-exp", "", "minimum years of experience"),
		company:   fs.String("company", "", "company name contains (case-insensitive)"),
		location:  fs.String("location", "", "location contains (case-insensitive)"),
		remote:    fs.Bool("remote", false, "remote roles only"),
		techStack: fs.String("stack", "", "tech stack contains (case-insensitive)"),
		role:      fs.String("role", "", "job role contains (case-insensitive)"),
		minPay:    fs.String("min-pay", "", "minimum base pay"),
	}
}

// apply layers non-empty flags over the configured criteria.
func (f *filterFlags) apply(base filter.Criteria) filter.Criteria {
	out := base
	if v := strings.TrimSpace(*f.minExp); v != "" {
		out.MinExperience = v
	}
	if v := strings.TrimSpace(*f.company); v != "" {
		out.CompanyName = v
	}
	if v := strings.TrimSpace(*f.location); v != "" {
		out.Location = v
	}
	if *f.remote {
		out.RemoteOnly = true
	}
	if v := strings.TrimSpace(*f.techStack); v != "" {
		out.TechStack = v
	}
	if v := strings.TrimSpace(*f.role); v != "" {
		out.Role = v
	}
	if v := strings.TrimSpace(*f.minPay); v != "" {
		out.MinBasePay = v
	}
	return out
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	common := bindCommonFlags(fs)
	filters := bindFilterFlags(fs)
	pages := fs.Int("pages", 1, "pages to fetch; 0 fetches until an empty page")
	jsonOut := fs.Bool("json", false, "print JSON output")
	outPath := fs.String("out", "", "also write the listing to this JSON file")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pages < 0 {
		return errors.New("--pages must be >= 0")
	}

	rt, err := common.setup()
	if err != nil {
		return err
	}
	criteria := filters.apply(rt.cfg.Filters.Criteria())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	f, fetchErr := feed.Collect(ctx, rt.client, feed.CollectOptions{
		PageSize: rt.cfg.API.PageSize,
		MaxPages: *pages,
		Logger:   rt.logger,
	})
	listing := export.NewListing(rt.client.Endpoint(), f, criteria, time.Now())

	ev := rt.logger.Info()
	if fetchErr != nil {
		ev = rt.logger.Warn().Err(fetchErr)
	}
	ev.Int("pages", listing.PagesFetched).
		Int("loaded", listing.Stats.Loaded).
		Int("visible", listing.Visible).
		Str("filters", criteria.Summary()).
		Dur("elapsed", time.Since(started)).
		Msg("List finished")

	if strings.TrimSpace(*outPath) != "" {
		if err := export.WriteJSON(strings.TrimSpace(*outPath), listing); err != nil {
			return err
		}
	}

	if *jsonOut {
		if err := printJSON(listing); err != nil {
			return err
		}
	} else {
		printListing(listing)
		if p := strings.TrimSpace(*outPath); p != "" {
			fmt.Printf("written: %s\n", p)
		}
	}

	if fetchErr != nil {
		return fmt.Errorf("stopped after %d job(s): %w", listing.Stats.Loaded, fetchErr)
	}
	return nil
}

func printListing(l export.Listing) {
	fmt.Printf("endpoint: %s\n", l.Endpoint)
	fmt.Printf("pages: %d (size %d)\n", l.PagesFetched, l.PageSize)
	fmt.Printf("loaded: %d\n", l.Stats.Loaded)
	if l.Stats.TotalCount > 0 {
		fmt.Printf("listed: %d\n", l.Stats.TotalCount)
	}
	fmt.Printf("end_reached: %t\n", l.Stats.EndReached)
	fmt.Printf("filters: %s\n", l.Criteria.Summary())
	fmt.Printf("showing: %d\n", l.Visible)
	if len(l.Jobs) == 0 {
		fmt.Println("no jobs match")
		return
	}
	fmt.Println()
	for _, job := range l.Jobs {
		fmt.Printf("- %s\n", jobListLine(job))
		fmt.Printf("  salary: %s | experience: %s | remote: %s\n", formatSalary(job), formatExperience(job.MinExp), yesNo(job.IsRemote))
		if stack := strings.TrimSpace(job.TechStack); stack != "" {
			fmt.Printf("  stack: %s\n", stack)
		}
		if link := strings.TrimSpace(job.JdLink); link != "" {
			fmt.Printf("  link: %s\n", link)
		}
	}
}
