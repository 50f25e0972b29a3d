package entity

type ConflictType string

const (
	ConflictOverlappingMeetings ConflictType = "overlapping_meetings"
	ConflictOutsideWorkHours    ConflictType = "outside_work_hours"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

type ScheduleStatus string

const (
	StatusCritical ScheduleStatus = "critical"
	StatusWarning  ScheduleStatus = "warning"
	StatusGood     ScheduleStatus = "good"
)

type MeetingRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Time  string `json:"time"`
}

func RefOf(m Meeting) MeetingRef {
	return MeetingRef{ID: m.ID, Title: m.Title, Time: m.TimeRange()}
}

// Conflict is a tagged record. Overlapping conflicts set Meeting1, Meeting2
// and the overlap fields; outside-work-hours conflicts set Meeting, WorkHours
// and Issue.
type Conflict struct {
	Type     ConflictType `json:"type"`
	Severity Severity     `json:"severity"`

	Meeting1               *MeetingRef `json:"meeting1,omitempty"`
	Meeting2               *MeetingRef `json:"meeting2,omitempty"`
	OverlapDurationMinutes float64     `json:"overlap_duration_minutes,omitempty"`
	OverlapTime            string      `json:"overlap_time,omitempty"`

	Meeting   *MeetingRef `json:"meeting,omitempty"`
	WorkHours string      `json:"work_hours,omitempty"`
	Issue     string      `json:"issue,omitempty"`
}

// MatchedMeeting is a meeting inside a query window together with the part of
// it that falls in the window.
type MatchedMeeting struct {
	MeetingID    string   `json:"meeting_id"`
	Title        string   `json:"title"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Participants []string `json:"participants"`
	OverlapStart string   `json:"overlap_start"`
	OverlapEnd   string   `json:"overlap_end"`
}

type SeverityCount struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
}

type Insights struct {
	MeetingLoadPercentage   float64        `json:"meeting_load_percentage"`
	TotalMeetingTimeMinutes float64        `json:"total_meeting_time_minutes"`
	ConflictSeverity        SeverityCount  `json:"conflict_severity"`
	Recommendations         []string       `json:"recommendations"`
	Status                  ScheduleStatus `json:"status"`
}
