package quiz

import "time"

// IsAvailable reports whether a response may be accepted at now. The manual flag is checked
// first and always wins when false; the bounds are inclusive at both ends.
func IsAvailable(accepting bool, start, end *time.Time, now time.Time) bool {
	if !accepting {
		return false
	}
	if start != nil && now.Before(*start) {
		return false
	}
	if end != nil && now.After(*end) {
		return false
	}
	return true
}

type WindowState string

const (
	WindowOpen       WindowState = "open"
	WindowClosed     WindowState = "closed"
	WindowNotStarted WindowState = "not_started"
	WindowEnded      WindowState = "ended"
)

// Window describes the availability of a quiz to a taker.
type Window struct {
	Available bool        `json:"available"`
	State     WindowState `json:"state"`
	OpensIn   *int64      `json:"opens_in_seconds,omitempty"`
	ClosesIn  *int64      `json:"closes_in_seconds,omitempty"`
}

func (q *Quiz) WindowAt(now time.Time) Window {
	switch {
	case !q.AcceptingResponses:
		return Window{State: WindowClosed}
	case q.StartTime != nil && now.Before(*q.StartTime):
		secs := int64(q.StartTime.Sub(now).Seconds())
		return Window{State: WindowNotStarted, OpensIn: &secs}
	case q.EndTime != nil && now.After(*q.EndTime):
		return Window{State: WindowEnded}
	}

	w := Window{Available: true, State: WindowOpen}
	if q.EndTime != nil {
		secs := int64(q.EndTime.Sub(now).Seconds())
		w.ClosesIn = &secs
	}
	return w
}
