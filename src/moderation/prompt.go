package moderation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// A prompt message pairs a row with the text a moderator reviews. The row
// index rides in the message itself: "<rowIndex> <text>". ParsePrompt is the
// only way back from a reply to a row, so both sides use these two helpers.

// FormatPrompt renders the outbound prompt for one submission row.
func FormatPrompt(rowIndex int, text string) string {
	return fmt.Sprintf("%d %s", rowIndex, text)
}

// ParsePrompt recovers the row index and submission text from a prompt.
func ParsePrompt(prompt string) (int, string, error) {
	idx := strings.IndexByte(prompt, ' ')
	if idx <= 0 {
		return 0, "", ErrMalformedPrompt
	}
	rowIndex, err := strconv.Atoi(prompt[:idx])
	if err != nil || rowIndex < 1 {
		return 0, "", ErrMalformedPrompt
	}
	return rowIndex, prompt[idx+1:], nil
}

// NormalizeCommand strips punctuation, trims and lower-cases a moderator
// message so "Yes!!" and "yes" read the same.
func NormalizeCommand(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}
