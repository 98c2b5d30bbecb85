package logging

import "strings"

// IsRateLimit spots throttling responses from the Graph and Sheets APIs so
// callers can tell moderators to retry instead of digging through logs.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rateLimitExceeded") ||
		containsStatus(msg, "429")
}

// containsStatus reports whether code appears in msg as a standalone
// number, so a row index or quota figure that merely contains the digits
// doesn't read as a throttle.
func containsStatus(msg, code string) bool {
	for i := 0; ; i += len(code) {
		j := strings.Index(msg[i:], code)
		if j < 0 {
			return false
		}
		i += j
		before := i == 0 || !isDigit(msg[i-1])
		after := i+len(code) == len(msg) || !isDigit(msg[i+len(code)])
		if before && after {
			return true
		}
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
