package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ── Error bag ────────────────────────────────────────────────────────────────

// Errors collects validation messages per field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has reports whether any field failed.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first message recorded for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules maps field names to pipe-separated rule strings.
// e.g. Rules{"email": "required|email", "name": "required|min:2|max:100"}
type Rules map[string]string

// Validator checks a flat map of input values against Rules.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
}

// Make creates a Validator over data.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and reports whether any rule failed.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and reports whether all rules passed.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core loop ────────────────────────────────────────────────────────────────

func (v *Validator) validate() {
	for field, ruleStr := range v.rules {
		value := v.data[field]

		for _, rule := range strings.Split(ruleStr, "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			name, param, _ := strings.Cut(rule, ":")

			// Field-level bail: the first failing rule ends the field.
			if !v.applyRule(field, value, name, param) {
				break
			}
		}
	}
}

// applyRule reports whether rule processing should continue for this field.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	switch rule {
	case "sometimes":
		// Skip remaining rules silently when the field is absent.
		if value == "" {
			return false
		}

	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "string":
		// Form input is already a string; nothing to check.

	case "numeric":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be a number.", field))
			return false
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be an integer.", field))
			return false
		}

	case "boolean":
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
		default:
			v.errors.add(field, fmt.Sprintf("The %s field must be true or false.", field))
			return false
		}

	case "email":
		if _, err := mail.ParseAddress(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be a valid email address.", field))
			return false
		}

	case "url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			v.errors.add(field, fmt.Sprintf("The %s must be a valid URL.", field))
			return false
		}

	case "uuid":
		if _, err := uuid.Parse(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be a valid UUID.", field))
			return false
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			v.errors.add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			break
		}
		min, _ := strconv.Atoi(strings.TrimSpace(lo))
		max, _ := strconv.Atoi(strings.TrimSpace(hi))
		if l := utf8.RuneCountInString(value); l < min || l > max {
			v.errors.add(field, fmt.Sprintf("The %s must be between %d and %d characters.", field, min, max))
			return false
		}

	case "in":
		found := false
		for _, a := range strings.Split(param, ",") {
			if strings.TrimSpace(a) == value {
				found = true
				break
			}
		}
		if !found {
			v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
			return false
		}

	case "confirmed":
		if v.data[field+"_confirmation"] != value {
			v.errors.add(field, fmt.Sprintf("The %s confirmation does not match.", field))
			return false
		}

	case "alpha_num":
		if !alphaNumRe.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s may only contain letters and numbers.", field))
			return false
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s format is invalid.", field))
			return false
		}

	case "nullable":
		// Allows empty values through subsequent rules.
	}

	return true
}

var alphaNumRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
