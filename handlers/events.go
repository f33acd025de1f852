package handlers

import (
	"context"
	"fmt"
	"time"

	"alumni/models"
	"alumni/utils"
)

func init() {
	register(
		Command{Name: "events", Summary: "list upcoming events", Run: listEvents},
		Command{Name: "event", Summary: "show one event", Run: showEvent},
		Command{Name: "create-event", Summary: "post a new event", RequiresAuth: true, Run: createEvent},
		Command{Name: "attend", Summary: "register for an event", RequiresAuth: true, Run: attendEvent},
	)
}

type eventsView struct {
	Page       int
	TotalPages int
	Events     []models.Event
}

func listEvents(ctx context.Context, a *App, args []string) error {
	fs := a.flags("events")
	params := models.ListEventsParams{}
	fs.IntVar(&params.Page, "page", 1, "page number")
	fs.IntVar(&params.Limit, "limit", 10, "events per page")
	fs.StringVar(&params.SortBy, "sort", "date", "sort field")
	fs.StringVar(&params.SortOrder, "order", "asc", "sort order: asc or desc")
	date := fs.String("date", "", "only events on this date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if params.Page < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	if *date != "" {
		d, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", *date)
		}
		params.FilterDate = &d
	}

	page, err := a.Client.Events.GetEvents(ctx, params)
	if err != nil {
		return err
	}
	return a.render("events", eventsView{Page: params.Page, TotalPages: page.TotalPages, Events: page.Events})
}

func showEvent(ctx context.Context, a *App, args []string) error {
	fs := a.flags("event")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "event-id")
	if err != nil {
		return err
	}
	event, err := a.Client.Events.GetEventDetails(ctx, id)
	if err != nil {
		return err
	}
	return a.render("event", event)
}

func createEvent(ctx context.Context, a *App, args []string) error {
	fs := a.flags("create-event")
	var in models.EventInput
	fs.StringVar(&in.Title, "title", "", "event title")
	date := fs.String("date", "", "date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	fs.StringVar(&in.Location, "location", "", "location")
	fs.StringVar(&in.Description, "description", "", "description")
	maxAttendees := fs.Int("max", 0, "maximum attendees (0 for no limit)")
	fs.StringVar(&in.RegistrationLink, "link", "", "external registration link")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *date != "" {
		d, err := models.ParseDate(*date)
		if err != nil {
			return err
		}
		in.Date = d
	}
	if *maxAttendees != 0 {
		in.MaxAttendees = maxAttendees
	}
	if err := utils.ValidateEventInput(in); err != nil {
		return err
	}

	event, err := a.Client.Events.CreateEvent(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Created event %s.", event.ID)
	return nil
}

func attendEvent(ctx context.Context, a *App, args []string) error {
	fs := a.flags("attend")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "event-id")
	if err != nil {
		return err
	}
	resp, err := a.Client.Events.RegisterForEvent(ctx, id)
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "Successfully registered for event!"
	}
	a.printf("%s", msg)
	return nil
}
