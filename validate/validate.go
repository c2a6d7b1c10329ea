// Package validate holds the declarative field constraints of every form.
// The constraints mirror what the backend enforces, so most violations are
// caught before a round-trip, but the backend remains authoritative.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Errors maps field names to messages. An empty map means the input is valid.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Error joins all messages, sorted by field name for stable output.
func (e Errors) Error() string {
	var fields = make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var messages = make([]string, 0, len(e))
	for _, field := range fields {
		messages = append(messages, e[field])
	}
	return strings.Join(messages, ", ")
}

// A Rule checks one value and returns a message if it is violated.
type Rule func(value string) string

type Field struct {
	Name     string
	Value    string
	Optional bool // empty value skips all rules
	Rules    []Rule
}

// Check runs all rules and collects the first violation per field.
func Check(fields ...Field) Errors {
	var errs = make(Errors)
	for _, field := range fields {
		if field.Optional && field.Value == "" {
			continue
		}
		for _, rule := range field.Rules {
			if message := rule(field.Value); message != "" {
				errs[field.Name] = message
				break
			}
		}
	}
	return errs
}

func Min(n int, what string) Rule {
	return func(value string) string {
		if utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("%s must be at least %d characters", what, n)
		}
		return ""
	}
}

func Max(n int, what string) Rule {
	return func(value string) string {
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("%s must be less than %d characters", what, n)
		}
		return ""
	}
}

func Required(message string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return message
		}
		return ""
	}
}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email() Rule {
	return func(value string) string {
		if !emailRegexp.MatchString(value) {
			return "Please enter a valid email address"
		}
		return ""
	}
}

func URL() Rule {
	return func(value string) string {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "Please enter a valid URL"
		}
		return ""
	}
}

func OneOf(allowed []string, message string) Rule {
	return func(value string) string {
		for _, candidate := range allowed {
			if value == candidate {
				return ""
			}
		}
		return message
	}
}
