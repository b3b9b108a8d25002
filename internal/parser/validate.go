package parser

import (
	"regexp"
	"sort"
	"strings"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a form field name to a user-facing message. An empty map
// means the form is valid.
type FieldErrors map[string]string

// Error joins the messages in field order so output is stable.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// OK reports whether no field failed.
func (fe FieldErrors) OK() bool { return len(fe) == 0 }

// Err returns fe as an error, or nil when there is nothing to report.
func (fe FieldErrors) Err() error {
	if fe.OK() {
		return nil
	}
	return fe
}

// ValidateEmail checks the loose "x@y.z" shape used by every form.
func ValidateEmail(email string) FieldErrors {
	fe := FieldErrors{}
	switch {
	case strings.TrimSpace(email) == "":
		fe["email"] = "Email is required"
	case !emailShape.MatchString(email):
		fe["email"] = "Please enter a valid email"
	}
	return fe
}

// ValidateSignup checks the signup form.
func ValidateSignup(firstName, email, password, confirm string, acceptedTerms bool) FieldErrors {
	fe := ValidateEmail(email)
	if strings.TrimSpace(firstName) == "" {
		fe["firstName"] = "First name is required"
	}
	switch {
	case password == "":
		fe["password"] = "Password is required"
	case len(password) < MinPasswordLength:
		fe["password"] = "Password must be at least 8 characters"
	}
	if password != confirm {
		fe["confirmPassword"] = "Passwords do not match"
	}
	if !acceptedTerms {
		fe["acceptedTerms"] = "You must accept the terms"
	}
	return fe
}

// ValidateLogin only checks presence; credential checks belong to auth.
func ValidateLogin(email, password string) FieldErrors {
	fe := FieldErrors{}
	if email == "" || password == "" {
		fe["submit"] = "Please enter your email and password"
	}
	return fe
}

// ValidateTime wraps ParseTimeInput for form use.
func ValidateTime(field, input string) (string, FieldErrors) {
	fe := FieldErrors{}
	hhmm, ok := ParseTimeInput(input)
	if !ok {
		fe[field] = "Please enter a valid time (e.g. 08:30 or 8:30 AM)"
	}
	return hhmm, fe
}
