package logging

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRateLimit(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"googleapi: Error 429: Quota exceeded, rateLimitExceeded", true},
		{"graph api error 429 (OAuthException): too many calls", true},
		{"Application request limit reached, rate limit hit", true},
		{"got HTTP 429", true},
		// Digits inside another number must not read as a throttle.
		{"write status for row 4290: permission denied", false},
		{"read rows from 14293: not found", false},
		{"paint row 1429 rejected: bad grid id", false},
		{"plain transport failure", false},
	}
	for _, tc := range cases {
		if got := IsRateLimit(errors.New(tc.msg)); got != tc.want {
			t.Errorf("IsRateLimit(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}

	if IsRateLimit(nil) {
		t.Error("IsRateLimit(nil) = true")
	}
	if !IsRateLimit(fmt.Errorf("schedule row 7: %w", errors.New("Error 429"))) {
		t.Error("wrapped 429 not detected")
	}
}
