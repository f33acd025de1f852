package models

import (
	"encoding/json"
	"strings"
)

type Profile struct {
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	GraduationYear NumString `json:"graduationYear"`
	Major          string    `json:"major"`
	CurrentJob     string    `json:"currentJob,omitempty"`
	Location       string    `json:"location,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Person is an embedded user reference. The backend sends either a bare id
// or a populated document.
type Person struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (p *Person) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Person{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*p = Person{ID: id}
		return nil
	}

	type alias Person
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}

func (p Person) Name() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.ID
	}
	return name
}
