package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the minimum number of characters accepted for a password.
const MinPasswordLength = 6

const (
	msgInvalidEmail    = "Please enter a valid email address."
	msgShortPassword   = "Password must be at least 6 characters."
	fieldEmail         = "email"
	fieldPassword      = "password"
	maxEmailLength     = 254
	maxEmailLocalPart  = 64
	maxEmailLabelCount = 127
)

// Credential is a login attempt that passed shape validation.
type Credential struct {
	Email    string
	Password string
}

// FieldErrors maps a form field name to the messages shown next to it.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Has reports whether field carries at least one message.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// First returns the first message for field.
func (f FieldErrors) First(field string) string {
	if msgs := f[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Empty reports whether no field has messages.
func (f FieldErrors) Empty() bool {
	for _, msgs := range f {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// ValidateCredential checks the shape of a login attempt. It never contacts
// the gate; a nil FieldErrors means the credential may be submitted.
func ValidateCredential(email, password string) (Credential, FieldErrors) {
	errs := FieldErrors{}
	if !ValidEmail(email) {
		errs.Add(fieldEmail, msgInvalidEmail)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs.Add(fieldPassword, msgShortPassword)
	}
	if !errs.Empty() {
		return Credential{}, errs
	}
	return Credential{Email: email, Password: password}, nil
}

// Validate is ValidateCredential in error form. A rejected credential yields
// a *ValidationError, which matches ErrValidation.
func Validate(email, password string) (Credential, error) {
	cred, fieldErrs := ValidateCredential(email, password)
	if fieldErrs != nil {
		return Credential{}, &ValidationError{Fields: fieldErrs}
	}
	return cred, nil
}

// ValidEmail reports whether value looks like local@domain with a dotted domain.
func ValidEmail(value string) bool {
	if value == "" || len(value) > maxEmailLength {
		return false
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, ok := strings.Cut(value, "@")
	if !ok || strings.Contains(domain, "@") {
		return false
	}
	if local == "" || len(local) > maxEmailLocalPart || domain == "" {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 || len(labels) > maxEmailLabelCount {
		return false
	}
	for _, label := range labels {
		if !validDomainLabel(label) {
			return false
		}
	}
	return true
}

func validDomainLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, r := range label {
		if r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
