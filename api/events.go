package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"alumni/models"
)

type EventService struct {
	c *Client
}

// GetEvents lists one page of events. Backends that answer with a bare array
// are normalized to an EventPage with TotalPages = ceil(len/limit).
func (s *EventService) GetEvents(ctx context.Context, params models.ListEventsParams) (*models.EventPage, error) {
	endpoint := "/events"
	if q := eventQuery(params); len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := s.c.Do(ctx, http.MethodGet, endpoint, nil, nil, &raw); err != nil {
		return nil, err
	}
	page, err := decodeEventPage(raw, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return page, nil
}

func eventQuery(p models.ListEventsParams) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	if p.FilterDate != nil && !p.FilterDate.IsZero() {
		q.Set("filterDate", p.FilterDate.UTC().Format("2006-01-02"))
	}
	return q
}

func decodeEventPage(raw json.RawMessage, limit int) (*models.EventPage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var events []models.Event
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, err
		}
		if events == nil {
			events = []models.Event{}
		}
		return &models.EventPage{Events: events, TotalPages: pageCount(len(events), limit)}, nil
	}

	page := &models.EventPage{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, page); err != nil {
			return nil, err
		}
	}
	if page.Events == nil {
		page.Events = []models.Event{}
	}
	return page, nil
}

// pageCount is ceil(n/limit). Without a limit everything is one page.
func pageCount(n, limit int) int {
	if limit <= 0 {
		if n == 0 {
			return 0
		}
		return 1
	}
	return (n + limit - 1) / limit
}

func (s *EventService) CreateEvent(ctx context.Context, input models.EventInput) (*models.Event, error) {
	var event models.Event
	if err := s.c.Do(ctx, http.MethodPost, "/events", input, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) GetEventDetails(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event details: %w", ErrMissingID)
	}
	var event models.Event
	if err := s.c.Do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// RegisterForEvent signs the current user up for an event.
func (s *EventService) RegisterForEvent(ctx context.Context, id string) (*models.Message, error) {
	if id == "" {
		return nil, fmt.Errorf("register for event: %w", ErrMissingID)
	}
	var resp models.Message
	if err := s.c.Do(ctx, http.MethodPost, "/events/"+url.PathEscape(id)+"/register", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
