// Package badge encodes and decodes the student badge payload printed on
// QR/barcode cards: "SMK-<studentID>-<kelas>".
//
// The payload is split on Delimiter, so student IDs, kelas labels and
// usernames must never contain it; roster validation enforces that at
// creation time.
package badge

import (
	"errors"
	"strings"
)

const (
	// Prefix is the fixed literal every badge payload starts with.
	Prefix = "SMK"

	// Delimiter separates the badge fields.
	Delimiter = "-"
)

var ErrInvalidFormat = errors.New("invalid badge format")

// Badge is a decoded badge payload.
type Badge struct {
	StudentID string
	Kelas     string
}

// Parse decodes a raw scan payload. The payload must contain exactly three
// Delimiter-separated fields and start with Prefix.
func Parse(raw string) (Badge, error) {
	parts := strings.Split(raw, Delimiter)
	if len(parts) != 3 || parts[0] != Prefix {
		return Badge{}, ErrInvalidFormat
	}
	return Badge{StudentID: parts[1], Kelas: parts[2]}, nil
}

// Format builds the badge payload for a student.
func Format(studentID, kelas string) string {
	return Prefix + Delimiter + studentID + Delimiter + kelas
}

// Safe reports whether s may be embedded in a badge payload.
func Safe(s string) bool {
	return !strings.Contains(s, Delimiter)
}
