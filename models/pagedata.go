package models

import "time"

// EventPage is one page of the event listing.
type EventPage struct {
	Events     []Event `json:"events"`
	TotalPages int     `json:"totalPages"`
}

type ListEventsParams struct {
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
	FilterDate *time.Time
}

// Dashboard is everything the landing view shows after login.
type Dashboard struct {
	Profile  *Profile
	Events   []Event
	Jobs     []Job
	Progress DonationProgress
}
