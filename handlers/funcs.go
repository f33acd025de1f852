package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"alumni/models"
)

var templateFuncs = template.FuncMap{
	"join":  strings.Join,
	"money": money,
	"seats": seats,
	"deadline": func(d *models.Date) string {
		if d == nil || d.IsZero() {
			return "open"
		}
		return d.String()
	},
	"percent": func(p models.DonationProgress) string {
		return strconv.FormatFloat(p.Percent(), 'f', 1, 64) + "%"
	},
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func seats(e models.Event) string {
	left, ok := e.SeatsLeft()
	if !ok {
		return fmt.Sprintf("%d attending", len(e.Attendees))
	}
	if left == 0 {
		return "full"
	}
	return fmt.Sprintf("%d of %d seats left", left, *e.MaxAttendees)
}
