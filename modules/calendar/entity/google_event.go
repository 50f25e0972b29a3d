package entity

import "time"

// EventTime is Google's start/end shape: DateTime for timed events, Date for
// all-day ones.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type GoogleEvent struct {
	ID      string    `json:"id"`
	Status  string    `json:"status"`
	Summary string    `json:"summary"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
}

const EventStatusCancelled = "cancelled"

// Span returns the event bounds. ok is false for all-day, cancelled or
// malformed events.
func (e GoogleEvent) Span() (start, end time.Time, ok bool) {
	if e.Status == EventStatusCancelled || e.Start.DateTime == "" || e.End.DateTime == "" {
		return start, end, false
	}
	start, err := time.Parse(time.RFC3339, e.Start.DateTime)
	if err != nil {
		return start, end, false
	}
	end, err = time.Parse(time.RFC3339, e.End.DateTime)
	if err != nil || !end.After(start) {
		return start, end, false
	}
	return start, end, true
}

type EventList struct {
	Items         []GoogleEvent `json:"items"`
	NextPageToken string        `json:"nextPageToken"`
}
