package fetch

import (
	"regexp"
	"strings"
)

// maxTitleLength caps the human-facing filename stem.
const maxTitleLength = 50

var (
	// hashtagTrail matches the first '#' and everything after it.
	hashtagTrail = regexp.MustCompile(`(?s)#.*`)
	// disallowed matches every character outside the safe filename set.
	// Letters and digits are Unicode classes, not ASCII, so accented and
	// non-Latin titles keep their characters.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.()]`)
)

// SanitizeTitle converts a source title into a safe filename stem: trailing
// hashtag segments stripped, unsafe characters removed, whitespace runs
// collapsed, trimmed, capped at 50 characters. The result is idempotent:
// sanitizing twice yields the same value as once.
func SanitizeTitle(title string) string {
	clean := hashtagTrail.ReplaceAllString(title, "")
	clean = disallowed.ReplaceAllString(clean, "")
	clean = strings.Join(strings.Fields(clean), " ")
	if runes := []rune(clean); len(runes) > maxTitleLength {
		clean = strings.TrimSpace(string(runes[:maxTitleLength]))
	}
	return clean
}

// FallbackName derives a generic stem from the run identifier, used when a
// title sanitizes down to nothing.
func FallbackName(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "audio_" + id
}
