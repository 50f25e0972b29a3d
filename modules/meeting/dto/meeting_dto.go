package dto

import (
	"time"

	"smart-schedule/modules/meeting/entity"
)

// ===================== Request DTOs =====================

type FindSlotsRequest struct {
	Participants    []string `json:"participants" validate:"required,min=1"`
	DurationMinutes int      `json:"duration_minutes" validate:"gt=0,lte=1440"`
	// DateRange is "YYYY-MM-DD to YYYY-MM-DD", both ends inclusive.
	DateRange string `json:"date_range" validate:"required"`
}

type DetectConflictsRequest struct {
	User string `json:"user" validate:"required"`
	// TimeRange is "<ISO timestamp> to <ISO timestamp>".
	TimeRange string `json:"time_range" validate:"required"`
}

type CheckAvailabilityRequest struct {
	User  string `json:"user" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type CreateMeetingRequest struct {
	Title           string   `json:"title" validate:"required"`
	Participants    []string `json:"participants" validate:"required,min=1"`
	DurationMinutes int      `json:"duration_minutes" validate:"gt=0,lte=1440"`
	StartTime       string   `json:"start_time" validate:"required"`
}

// ===================== Response DTOs =====================

type Recommendation struct {
	Rank                  int                   `json:"rank"`
	Start                 string                `json:"start"`
	End                   string                `json:"end"`
	Score                 int                   `json:"score"`
	Confidence            string                `json:"confidence"`
	Reasoning             string                `json:"reasoning"`
	ParticipantsAvailable int                   `json:"participants_available"`
	TotalParticipants     int                   `json:"total_participants"`
	Availability          []entity.Availability `json:"availability_details"`
}

type SearchCriteria struct {
	Participants []string `json:"participants"`
	Duration     int      `json:"duration"`
	DateRange    string   `json:"date_range"`
}

type FindSlotsResponse struct {
	Success         bool                 `json:"success"`
	Message         string               `json:"message"`
	Recommendations []Recommendation     `json:"recommendations"`
	Participants    []entity.Participant `json:"participants"`
	SearchCriteria  SearchCriteria       `json:"search_criteria"`
}

type UserSummary struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Timezone  string           `json:"timezone"`
	WorkHours entity.WorkHours `json:"work_hours"`
}

type TimeRangeEcho struct {
	Start         string  `json:"start"`
	End           string  `json:"end"`
	DurationHours float64 `json:"duration_hours"`
}

type ConflictReport struct {
	Success         bool                    `json:"success"`
	User            UserSummary             `json:"user"`
	TimeRange       TimeRangeEcho           `json:"time_range"`
	MeetingsInRange int                     `json:"meetings_in_range"`
	ConflictsFound  int                     `json:"conflicts_found"`
	Conflicts       []entity.Conflict       `json:"conflicts"`
	Meetings        []entity.MatchedMeeting `json:"meetings"`
	Insights        entity.Insights         `json:"insights"`
}

type AvailabilityResponse struct {
	Success bool `json:"success"`
	entity.Availability
	Start string `json:"start"`
	End   string `json:"end"`
}

type MeetingResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
}

type CreateMeetingResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Meeting MeetingResponse `json:"meeting"`
}

type UserListResponse struct {
	Items      []UserSummary `json:"items"`
	TotalItems int           `json:"total_items"`
}

type MeetingListResponse struct {
	Items      []MeetingResponse `json:"items"`
	TotalItems int               `json:"total_items"`
}

// ===================== Mapper Functions =====================

func ToUserSummary(u entity.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Timezone: u.Timezone, WorkHours: u.WorkHours}
}

func ToMeetingResponse(m entity.Meeting) MeetingResponse {
	participants := m.Participants
	if participants == nil {
		participants = []string{}
	}
	return MeetingResponse{
		ID:           m.ID,
		Title:        m.Title,
		Participants: participants,
		Start:        m.Start.Format(time.RFC3339),
		End:          m.End.Format(time.RFC3339),
	}
}
