package dto

import (
	meetingDto "smart-schedule/modules/meeting/dto"
)

const DefaultCalendarID = "primary"

// ===================== Request DTOs =====================

type SyncRequest struct {
	User string `json:"user" validate:"required"`
	// From and To are ISO timestamps or dates; offset-less values use the
	// configured location.
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// ===================== Response DTOs =====================

type SyncResponse struct {
	Success    bool                         `json:"success"`
	User       string                       `json:"user"`
	CalendarID string                       `json:"calendar_id"`
	Imported   int                          `json:"imported"`
	Skipped    int                          `json:"skipped"`
	Meetings   []meetingDto.MeetingResponse `json:"meetings"`
}
