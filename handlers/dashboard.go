package handlers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"alumni/models"
)

func init() {
	register(Command{Name: "dashboard", Summary: "profile, upcoming events, jobs and fundraising at a glance", RequiresAuth: true, Run: dashboard})
}

// LoadDashboard fetches the profile, the first page of events and the job
// list in parallel. The first failure cancels the rest and is returned.
// Donation progress never fails and is fetched alongside.
func LoadDashboard(ctx context.Context, a *App, eventLimit int) (*models.Dashboard, error) {
	var d models.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := a.Client.User.GetProfile(gctx)
		if err != nil {
			return err
		}
		d.Profile = profile
		return nil
	})
	g.Go(func() error {
		page, err := a.Client.Events.GetEvents(gctx, models.ListEventsParams{Page: 1, Limit: eventLimit, SortBy: "date", SortOrder: "asc"})
		if err != nil {
			return err
		}
		d.Events = page.Events
		return nil
	})
	g.Go(func() error {
		jobs, err := a.Client.Jobs.GetJobs(gctx)
		if err != nil {
			return err
		}
		d.Jobs = jobs
		return nil
	})
	g.Go(func() error {
		d.Progress = a.Client.Donations.GetDonationProgress(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func dashboard(ctx context.Context, a *App, args []string) error {
	fs := a.flags("dashboard")
	limit := fs.Int("events", 5, "number of upcoming events to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := LoadDashboard(ctx, a, *limit)
	if err != nil {
		return err
	}
	return a.render("dashboard", d)
}
