// Package dispatch decides whether a motion verdict may result in a
// snapshot send, given how recently the previous send started.
package dispatch

import "time"

// ShouldSend reports whether a motion-triggered dispatch is allowed.
// It is a pure decision function: the caller records lastSend when it
// initiates a dispatch attempt, not when delivery is confirmed, so a
// slow or failing transport cannot cause a burst of attempts while
// motion persists.
//
// A zero lastSend means no dispatch has been attempted yet. The
// interval check is inclusive: exactly minInterval since the last
// send allows a new one. The daily snapshot path does not consult
// this gate at all.
func ShouldSend(present bool, lastSend time.Time, minInterval time.Duration, now time.Time) bool {
	if !present {
		return false
	}
	if lastSend.IsZero() {
		return true
	}
	return now.Sub(lastSend) >= minInterval
}
