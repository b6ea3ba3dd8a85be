package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/mozillazg/go-unidecode"
)

const (
	MinComicYear = 1900
	// MaxYearsAhead allows announced titles a few years before release.
	MaxYearsAhead = 5

	minTitleLen    = 3
	minAuthorLen   = 2
	minContentLen  = 3
	minNameLen     = 3
	minPasswordLen = 6
)

var fieldValidator = validator.New()

// ValidComicYear reports whether year is within [1900, current year + 5].
func ValidComicYear(year int, now time.Time) bool {
	return year >= MinComicYear && year <= now.Year()+MaxYearsAhead
}

func minRunes(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

func validEmail(s string) bool {
	return fieldValidator.Var(s, "required,email") == nil
}

func validURL(s string) bool {
	return fieldValidator.Var(s, "required,url") == nil
}

// NormalizeEmail is the stored form of an address: trimmed and lowercased.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// searchKey folds case and accents so "Mônica" and "monica" compare equal.
func searchKey(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}

// optional trims s and turns blank strings into nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
