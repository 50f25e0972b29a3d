package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// User is a person whose calendar can be scheduled against.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	WorkHours WorkHours `json:"work_hours"`
	// Calendar is an external calendar reference, used by the Google importer.
	Calendar string `json:"calendar,omitempty"`
}

// WorkHours is a daily window encoded as ["HH:MM","HH:MM"]. The zero value
// means no declared hours, which is treated as the whole day.
type WorkHours struct {
	Start string
	End   string
}

func (w WorkHours) IsSet() bool {
	return w.Start != "" || w.End != ""
}

// Window returns the bounds in minutes after midnight.
func (w WorkHours) Window() (start, end int) {
	start, end = 0, minutesPerDay
	if s, err := ParseClock(w.Start); err == nil {
		start = s
	}
	if e, err := ParseClock(w.End); err == nil {
		end = e
	}
	return start, end
}

func (w WorkHours) String() string {
	start, end := w.Window()
	return FormatClock(start) + " to " + FormatClock(end)
}

func (w WorkHours) MarshalJSON() ([]byte, error) {
	if !w.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal([]string{w.Start, w.End})
}

func (w *WorkHours) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("work_hours: %w", err)
	}
	switch len(pair) {
	case 0:
		*w = WorkHours{}
		return nil
	case 2:
	default:
		return fmt.Errorf("work_hours: want [start, end], got %d values", len(pair))
	}
	parsed := WorkHours{Start: pair[0], End: pair[1]}
	if err := parsed.Validate(); err != nil {
		return err
	}
	*w = parsed
	return nil
}

func (w WorkHours) Validate() error {
	if !w.IsSet() {
		return nil
	}
	start, err := ParseClock(w.Start)
	if err != nil {
		return fmt.Errorf("work_hours start: %w", err)
	}
	end, err := ParseClock(w.End)
	if err != nil {
		return fmt.Errorf("work_hours end: %w", err)
	}
	if start >= end {
		return fmt.Errorf("work_hours: start %s must be before end %s", w.Start, w.End)
	}
	return nil
}

// ParseClock parses "HH:MM" into minutes after midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockMinutes is the time of day of t on its own clock.
func ClockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Meeting is a calendar entry. Participants hold user ids or display names.
type Meeting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Participants []string  `json:"participants"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// Includes reports whether u is named by the meeting, by exact id or by
// case-insensitive name.
func (m Meeting) Includes(u User) bool {
	for _, p := range m.Participants {
		if u.ID != "" && p == u.ID {
			return true
		}
		if u.Name != "" && strings.EqualFold(p, u.Name) {
			return true
		}
	}
	return false
}

// TimeRange renders the meeting span as "start to end".
func (m Meeting) TimeRange() string {
	return m.Start.Format(time.RFC3339) + " to " + m.End.Format(time.RFC3339)
}

func (m Meeting) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("meeting id is required")
	}
	if !m.End.After(m.Start) {
		return fmt.Errorf("meeting %s: end must be after start", m.ID)
	}
	return nil
}

// Snapshot is the read-only view of users and meetings a single operation
// works on.
type Snapshot struct {
	Users    []User
	Meetings []Meeting
}

// FindUser matches key against user ids exactly, then names case-insensitively,
// in collection order.
func (s Snapshot) FindUser(key string) (User, bool) {
	key = strings.TrimSpace(key)
	for _, u := range s.Users {
		if u.ID == key || strings.EqualFold(u.Name, key) {
			return u, true
		}
	}
	return User{}, false
}

// MeetingsFor returns the meetings naming u, in collection order.
func (s Snapshot) MeetingsFor(u User) []Meeting {
	var out []Meeting
	for _, m := range s.Meetings {
		if m.Includes(u) {
			out = append(out, m)
		}
	}
	return out
}
