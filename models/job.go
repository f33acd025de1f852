package models

import "encoding/json"

type Job struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Company             string     `json:"company"`
	Location            string     `json:"location"`
	Description         string     `json:"description"`
	Requirements        StringList `json:"requirements"`
	Salary              NumString  `json:"salary,omitempty"`
	ApplicationDeadline *Date      `json:"applicationDeadline,omitempty"`
}

func (j *Job) UnmarshalJSON(b []byte) error {
	type alias Job
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(j)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if j.ID == "" {
		j.ID = aux.MongoID
	}
	return nil
}

// JobInput is the body of a create-job request.
type JobInput struct {
	Title               string     `json:"title"`
	Company             string     `json:"company"`
	Location            string     `json:"location"`
	Description         string     `json:"description"`
	Requirements        StringList `json:"requirements"`
	Salary              string     `json:"salary,omitempty"`
	ApplicationDeadline *Date      `json:"applicationDeadline,omitempty"`
}
