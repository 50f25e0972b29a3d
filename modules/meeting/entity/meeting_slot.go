package entity

import "time"

// TimeSlot is a half-open interval [Start, End).
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps is the half-open intersection test.
func (a TimeSlot) Overlaps(b TimeSlot) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

func (m Meeting) Slot() TimeSlot {
	return TimeSlot{Start: m.Start, End: m.End}
}

// MeetingConflict is a meeting that blocks a candidate slot.
type MeetingConflict struct {
	MeetingID    string `json:"meeting_id"`
	MeetingTitle string `json:"meeting_title"`
	MeetingTime  string `json:"meeting_time"`
}

// Availability is one participant's verdict for one candidate slot.
type Availability struct {
	User        string            `json:"user"`
	Kind        ParticipantKind   `json:"kind,omitempty"`
	Available   bool              `json:"available"`
	InWorkHours bool              `json:"in_work_hours"`
	Conflicts   []MeetingConflict `json:"conflicts"`
}

// CandidateSlot is a scored slot with the per-participant breakdown.
type CandidateSlot struct {
	TimeSlot
	Score        int            `json:"score"`
	Availability []Availability `json:"availability_details"`
}

func (s CandidateSlot) AvailableCount() int {
	n := 0
	for _, a := range s.Availability {
		if a.Available {
			n++
		}
	}
	return n
}

func (s CandidateSlot) InWorkHoursCount() int {
	n := 0
	for _, a := range s.Availability {
		if a.InWorkHours {
			n++
		}
	}
	return n
}
