package domain

import "strings"

// MinPhoneDigits is the shortest phone number accepted at registration.
const MinPhoneDigits = 10

// ValidPhone reports whether phone is at least MinPhoneDigits ASCII digits.
func ValidPhone(phone string) bool {
	if len(phone) < MinPhoneDigits {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// OptionalString returns nil for blank input, otherwise a pointer to the trimmed value.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
