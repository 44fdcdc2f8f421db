package forms

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Required fails on empty or whitespace-only values.
func Required(label string) Validator {
	return func(_ context.Context, value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// EmailShape fails when the value is not shaped like an email address.
func EmailShape() Validator {
	return func(_ context.Context, value string) error {
		if !emailRegex.MatchString(value) {
			return fmt.Errorf("please enter a valid email address")
		}
		return nil
	}
}

// URLShape fails when the value is not an absolute http(s) URL.
func URLShape() Validator {
	return func(_ context.Context, value string) error {
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("please enter a valid URL")
		}
		return nil
	}
}

// OneOf fails unless the value matches one of the allowed choices exactly.
func OneOf(label string, choices ...string) Validator {
	return func(_ context.Context, value string) error {
		for _, c := range choices {
			if value == c {
				return nil
			}
		}
		return fmt.Errorf("%s must be one of %s", label, strings.Join(choices, ", "))
	}
}

// LookupFunc reports whether a record with the given value already exists.
// The storage layer supplies it; validators never query the database
// themselves.
type LookupFunc func(ctx context.Context, value string) (bool, error)

// NotInUse fails with msg when the injected lookup finds an existing record.
// Lookup errors fail validation too: accepting a registration we could not
// verify would let duplicates through.
func NotInUse(lookup LookupFunc, msg string) Validator {
	return func(ctx context.Context, value string) error {
		exists, err := lookup(ctx, value)
		if err != nil {
			return fmt.Errorf("could not verify availability, please try again")
		}
		if exists {
			return fmt.Errorf("%s", msg)
		}
		return nil
	}
}
