package repository

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

var ErrBadDate = errors.New("malformed date, want YYYY-MM-DD")

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, ErrBadDate
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
