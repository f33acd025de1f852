package models

import "encoding/json"

type Event struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Date             Date     `json:"date"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	Organizer        Person   `json:"organizer"`
	Attendees        []Person `json:"attendees"`
	MaxAttendees     *int     `json:"maxAttendees,omitempty"`
	RegistrationLink string   `json:"registrationLink,omitempty"`
}

// UnmarshalJSON accepts Mongo-style "_id" in place of "id".
func (e *Event) UnmarshalJSON(b []byte) error {
	type alias Event
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = aux.MongoID
	}
	return nil
}

// SeatsLeft reports remaining capacity. ok is false when the event is uncapped.
func (e Event) SeatsLeft() (left int, ok bool) {
	if e.MaxAttendees == nil {
		return 0, false
	}
	left = *e.MaxAttendees - len(e.Attendees)
	if left < 0 {
		left = 0
	}
	return left, true
}

// EventInput is the body of a create-event request.
type EventInput struct {
	Title            string `json:"title"`
	Date             Date   `json:"date"`
	Location         string `json:"location"`
	Description      string `json:"description"`
	MaxAttendees     *int   `json:"maxAttendees,omitempty"`
	RegistrationLink string `json:"registrationLink,omitempty"`
}
