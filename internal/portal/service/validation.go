package service

import (
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72
	passwordSpecials  = "@$!%*?&"
	maxEmailLength    = 254
)

var (
	reName   = regexp.MustCompile(`^[A-Za-z ]{2,100}$`)
	reMatric = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{2}[0-9]{4}$`)
	reCode   = regexp.MustCompile(`^[0-9]{6}$`)
)

// NormalizeEmail trims and lowercases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	switch {
	case email == "":
		return invalid("email", "Email is required.")
	case len(email) > maxEmailLength:
		return invalid("email", "Email is too long.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndexByte(email, '@'):], ".") {
		return invalid("email", "Invalid email format.")
	}
	return nil
}

func validateName(name string) error {
	if !reName.MatchString(name) {
		return invalid("name", "Name must be 2-100 letters and spaces.")
	}
	return nil
}

func validateMatric(matric string) error {
	if !reMatric.MatchString(matric) {
		return invalid("matric_number", "Invalid matric number format (e.g. CB21AB1234).")
	}
	return nil
}

func validateDepartment(code string) error {
	if !slices.Contains(domain.Departments, code) {
		return invalid("department", "Please select a valid department.")
	}
	return nil
}

// validatePassword enforces the strength policy on field.
func validatePassword(field, password string) error {
	if len(password) < minPasswordLength {
		return invalid(field, "Password must be at least 8 characters long.")
	}
	if len(password) > maxPasswordLength {
		return invalid(field, "Password must be at most 72 characters long.")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	switch {
	case !upper:
		return invalid(field, "Password must contain at least one uppercase letter.")
	case !lower:
		return invalid(field, "Password must contain at least one lowercase letter.")
	case !digit:
		return invalid(field, "Password must contain at least one number.")
	case !special:
		return invalid(field, "Password must contain at least one special character (@$!%*?&).")
	}
	return nil
}

// validCode reports whether s looks like a two-factor code.
func validCode(s string) bool { return reCode.MatchString(s) }
