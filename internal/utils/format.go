package utils

import (
	"fmt"
	"strings"
)

// NotAvailable is shown in place of missing profile fields.
const NotAvailable = "Not Available"

// FormatID zero-pads an inmate id to eight digits.
func FormatID(id int64) string {
	if id <= 0 {
		return "Invalid"
	}
	s := fmt.Sprintf("%08d", id)
	return s[len(s)-8:]
}

// FullName joins first and last name; both must be present.
func FullName(first, last string) string {
	if first == "" || last == "" {
		return NotAvailable
	}
	return first + " " + last
}

// OrNotAvailable returns s, or NotAvailable when s is blank.
func OrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
