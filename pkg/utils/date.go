package utils

import (
	"fmt"
	"regexp"
	"time"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ValidateDateParam checks a YYYY-MM-DD query parameter, returning the
// string untouched when valid.
func ValidateDateParam(name, value string) (string, error) {
	if !isoDatePattern.MatchString(value) {
		return "", fmt.Errorf("parameter %s must be in YYYY-MM-DD format", name)
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return "", fmt.Errorf("parameter %s is not a valid date", name)
	}
	return value, nil
}

// DatesBetween expands an inclusive YYYY-MM-DD range into individual days.
func DatesBetween(start, end string) ([]string, error) {
	startDay, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return nil, err
	}
	endDay, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return nil, err
	}

	var days []string
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(time.DateOnly))
	}
	return days, nil
}
