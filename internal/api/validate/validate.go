package validate

import (
	"fmt"
	"regexp"
	"time"
)

// UserID must be lowercase letters, digits, underscore or hyphen, 1-36 chars.
var userIdRx = regexp.MustCompile(`^[a-z0-9_\-]{1,36}$`)

// titleRx allows letters, digits, single spaces, hyphen and apostrophe.
var titleRx = regexp.MustCompile(`^[A-Za-z0-9' \-]+$`)

// Title validates a habit title:
// - 1-80 bytes
// - letters/digits/space/hyphen/apostrophe only
// Returns an error describing the first violated rule.
func Title(v string) error {
	if v == "" {
		return fmt.Errorf("title is required")
	}
	if len(v) > 80 {
		return fmt.Errorf("title exceeds 80 characters")
	}
	if !titleRx.MatchString(v) {
		return fmt.Errorf("title contains invalid characters; allowed letters, digits, space, hyphen")
	}
	return nil
}

func UserID(v string) error {
	if v == "" {
		return fmt.Errorf("userId is required")
	}
	if !userIdRx.MatchString(v) {
		return fmt.Errorf("userId must match %s", userIdRx.String())
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Date parses an optional toggle date in 2006-01-02 form.
func Date(v string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return d, nil
}

// -------- Request specific helpers ----------

// CreateHabit validates input for creating a new habit.
func CreateHabit(title string, description *string) error {
	if err := Title(title); err != nil {
		return err
	}
	return MaxLen("description", description, 500)
}
