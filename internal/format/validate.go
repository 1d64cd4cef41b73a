package format

import (
	"regexp"
	"strings"
)

var (
	emailPattern          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	colombianPhonePattern = regexp.MustCompile(`^(\+57\s?)?(3\d{2})\s?(\d{3})\s?(\d{4})$`)
	trackingPattern       = regexp.MustCompile(`^PAP\d{8}[A-Z0-9]{8}$`)
)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone accepts anything with at least ten digits.
func ValidPhone(phone string) bool {
	return len(Digits(phone)) >= 10
}

// ValidColombianPhone accepts mobile numbers like "+57 300 123 4567" or
// "3001234567".
func ValidColombianPhone(phone string) bool {
	return colombianPhonePattern.MatchString(strings.TrimSpace(phone))
}

// ValidTrackingNumber checks the format TrackingNumber produces.
func ValidTrackingNumber(tracking string) bool {
	return trackingPattern.MatchString(tracking)
}

var searchReplacer = strings.NewReplacer("%", "", "_", "", ";", "", "--", "", "/*", "", "*/", "")

// SanitizeSearchTerm drops wildcard and comment characters from a search
// term before it is sent to the server.
func SanitizeSearchTerm(term string) string {
	return strings.TrimSpace(searchReplacer.Replace(term))
}
