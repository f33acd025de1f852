package utils

import (
	"errors"
	"fmt"
	"math"
	netmail "net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"alumni/models"
)

var (
	uppercase   = regexp.MustCompile(`[A-Z]`)
	lowercase   = regexp.MustCompile(`[a-z]`)
	digit       = regexp.MustCompile(`\d`)
	specialChar = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

func ValidateEmail(email string) error {
	_, err := netmail.ParseAddress(email)

	return err
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	if !uppercase.MatchString(password) {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !lowercase.MatchString(password) {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !digit.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !specialChar.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}

func SamePassword(password string, confirmedPassword string) bool {
	return password == confirmedPassword
}

// ValidateTitle checks event and job titles.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) == 0 || len(title) > 255 {
		return errors.New("title must be between 1 and 255 characters")
	}
	if strings.ContainsAny(title, "<>") {
		return errors.New("title contains invalid characters")
	}
	return nil
}

// ValidateAmount checks a donation amount in major currency units.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if cents := amount * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
		return errors.New("amount must have at most two decimal places")
	}
	return nil
}

// ValidateGraduationYear accepts a four digit year from 1900 up to ten
// years from now.
func ValidateGraduationYear(year string) error {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || len(strings.TrimSpace(year)) != 4 {
		return errors.New("graduation year must be a four digit year")
	}
	if latest := time.Now().Year() + 10; y < 1900 || y > latest {
		return fmt.Errorf("graduation year must be between 1900 and %d", latest)
	}
	return nil
}

func ValidateLink(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("link must be an absolute http(s) URL")
	}
	return nil
}

func ValidateRegistration(reg models.Registration) error {
	if strings.TrimSpace(reg.FirstName) == "" || strings.TrimSpace(reg.LastName) == "" {
		return errors.New("first and last name are required")
	}
	if err := ValidateEmail(reg.Email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	if err := ValidatePassword(reg.Password); err != nil {
		return err
	}
	return ValidateGraduationYear(string(reg.GraduationYear))
}

func ValidateEventInput(in models.EventInput) error {
	if err := ValidateTitle(in.Title); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return errors.New("event date is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return errors.New("event location is required")
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 1 {
		return errors.New("max attendees must be at least 1")
	}
	if in.RegistrationLink != "" {
		return ValidateLink(in.RegistrationLink)
	}
	return nil
}

func ValidateJobInput(in models.JobInput) error {
	if err := ValidateTitle(in.Title); err != nil {
		return err
	}
	if strings.TrimSpace(in.Company) == "" {
		return errors.New("company is required")
	}
	return nil
}
