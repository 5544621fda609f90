package storage

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// DefaultTitleLength is the number of runes of the first user message kept
// as the conversation title.
const DefaultTitleLength = 50

// GenerateID generates a unique ID for storage entities
func GenerateID() string {
	return uuid.New().String()
}

// TitleFromMessage derives a conversation title from the first user message:
// whitespace is collapsed and the result is cut to maxRunes runes.
func TitleFromMessage(content string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultTitleLength
	}
	title := strings.Join(strings.FieldsFunc(content, unicode.IsSpace), " ")
	runes := []rune(title)
	if len(runes) > maxRunes {
		title = strings.TrimSpace(string(runes[:maxRunes]))
	}
	if title == "" {
		return DefaultTitle
	}
	return title
}

func now() time.Time {
	return time.Now().UTC()
}

// nextTimestamp returns a creation time that is never before prev, so
// insertion order and timestamp order agree.
func nextTimestamp(prev time.Time) time.Time {
	t := now()
	if !prev.IsZero() && !t.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return t
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
