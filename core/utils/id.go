package utils

import (
	"strings"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func GenerateID(length int) string {
	id, err := gonanoid.Generate(idAlphabet, length)
	if err != nil {
		return ""
	}
	return id
}

// NewMeetingID returns "m" followed by six random alphanumerics.
func NewMeetingID() string {
	return "m" + GenerateID(6)
}

// SyntheticUserID derives a stable id for a participant that is not a known
// user, e.g. "Dana Scully" -> "guest-dana-scully".
func SyntheticUserID(name string) string {
	s := slug.Make(strings.TrimSpace(name))
	if s == "" {
		s = strings.ToLower(strings.TrimSpace(name))
	}
	return "guest-" + s
}
