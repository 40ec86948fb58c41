package types

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrNotFound is returned when the service reports 404 for a habit.
var ErrNotFound = errors.New("habit not found")

var userIDRx = regexp.MustCompile(`^[a-z0-9_\-]{1,36}$`)

// ValidateUserID enforces the service's user id shape client-side so bad
// requests fail before they are enqueued.
func ValidateUserID(userID string) error {
	if !userIDRx.MatchString(userID) {
		return fmt.Errorf("invalid userId: must match %s", userIDRx.String())
	}
	return nil
}

// ValidateIDPresent rejects empty path identifiers.
func ValidateIDPresent(id, field string) error {
	if id == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	return nil
}

// ValidateTitle enforces the 1..80 char habit title limit.
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if len(title) > 80 {
		return fmt.Errorf("title must be at most 80 characters")
	}
	return nil
}

// ValidateDate checks the YYYY-MM-DD wire format used by the toggle command.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	return nil
}
