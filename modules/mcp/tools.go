package mcp

// In this file: MCP tool definitions and handler implementations.

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"smart-schedule/modules/meeting/dto"
	"smart-schedule/modules/meeting/service"
)

// ─── find_optimal_slots ───────────────────────────────────────────────────────

func (s *Server) toolFindOptimalSlots() mcpsrv.ServerTool {
	tool := mcplib.NewTool(service.OpFindOptimalSlots,
		mcplib.WithDescription(`Find the best meeting slots for a group.

Every weekday in the range is scanned on the hour from 09:00 to 16:00; a slot
that would end after 17:00 is skipped. Slots where any participant is busy are
discarded; slots outside someone's work hours are kept with a penalty. Up to
5 recommendations are returned, best first. Unknown participants are
scheduled as guests with 09:00-17:00 work hours.`),
		mcplib.WithArray("participants",
			mcplib.Description("Participant names or user ids."),
			mcplib.WithStringItems(),
			mcplib.Required(),
		),
		mcplib.WithNumber("duration_minutes",
			mcplib.Description("Meeting length in minutes."),
			mcplib.Required(),
		),
		mcplib.WithString("date_range",
			mcplib.Description(`Inclusive date range, e.g. "2024-01-15 to 2024-01-19".`),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleFindOptimalSlots}
}

func (s *Server) handleFindOptimalSlots(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	duration, ok := intArg(req, "duration_minutes")
	if !ok {
		return s.rejected(service.OpFindOptimalSlots, "duration_minutes must be a whole number of minutes"), nil
	}
	dateRange, _ := stringArg(req, "date_range")
	if dateRange == "" {
		return s.rejected(service.OpFindOptimalSlots, "date_range is required"), nil
	}

	resp, appErr := s.meetings.FindSlots(ctx, &dto.FindSlotsRequest{
		Participants:    stringsArg(req, "participants"),
		DurationMinutes: duration,
		DateRange:       dateRange,
	})
	if appErr != nil {
		return resultErr(appErr), nil
	}
	return resultJSON(resp), nil
}

// ─── detect_scheduling_conflicts ──────────────────────────────────────────────

func (s *Server) toolDetectSchedulingConflicts() mcpsrv.ServerTool {
	tool := mcplib.NewTool(service.OpDetectSchedulingConflicts,
		mcplib.WithDescription(`Analyse one user's schedule in a time window.

Reports overlapping meetings (high severity), meetings outside the user's work
hours (medium severity), the meetings in the window and a summary with the
meeting load percentage and recommendations.`),
		mcplib.WithString("user",
			mcplib.Description("User name or id."),
			mcplib.Required(),
		),
		mcplib.WithString("time_range",
			mcplib.Description(`Two ISO-8601 timestamps joined by " to ", e.g. "2024-01-15T09:00:00 to 2024-01-15T17:00:00".`),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleDetectSchedulingConflicts}
}

func (s *Server) handleDetectSchedulingConflicts(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	user, _ := stringArg(req, "user")
	if user == "" {
		return s.rejected(service.OpDetectSchedulingConflicts, "user is required"), nil
	}
	timeRange, _ := stringArg(req, "time_range")
	if timeRange == "" {
		return s.rejected(service.OpDetectSchedulingConflicts, "time_range is required"), nil
	}

	resp, appErr := s.meetings.DetectConflicts(ctx, &dto.DetectConflictsRequest{User: user, TimeRange: timeRange})
	if appErr != nil {
		return resultErr(appErr), nil
	}
	return resultJSON(resp), nil
}

// ─── check_availability ───────────────────────────────────────────────────────

func (s *Server) toolCheckAvailability() mcpsrv.ServerTool {
	tool := mcplib.NewTool(service.OpCheckAvailability,
		mcplib.WithDescription("Check whether one user is free and inside work hours for an interval."),
		mcplib.WithString("user", mcplib.Description("User name or id."), mcplib.Required()),
		mcplib.WithString("start", mcplib.Description("ISO-8601 start."), mcplib.Required()),
		mcplib.WithString("end", mcplib.Description("ISO-8601 end."), mcplib.Required()),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleCheckAvailability}
}

func (s *Server) handleCheckAvailability(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	user, _ := stringArg(req, "user")
	start, _ := stringArg(req, "start")
	end, _ := stringArg(req, "end")
	if user == "" || start == "" || end == "" {
		return s.rejected(service.OpCheckAvailability, "user, start and end are required"), nil
	}

	resp, appErr := s.meetings.CheckAvailability(ctx, &dto.CheckAvailabilityRequest{User: user, Start: start, End: end})
	if appErr != nil {
		return resultErr(appErr), nil
	}
	return resultJSON(resp), nil
}

// ─── create_meeting ───────────────────────────────────────────────────────────

func (s *Server) toolCreateMeeting() mcpsrv.ServerTool {
	tool := mcplib.NewTool(service.OpCreateMeeting,
		mcplib.WithDescription("Create a meeting. The end time is the start time plus the duration."),
		mcplib.WithString("title", mcplib.Description("Meeting title."), mcplib.Required()),
		mcplib.WithArray("participants",
			mcplib.Description("Participant names or user ids."),
			mcplib.WithStringItems(),
			mcplib.Required(),
		),
		mcplib.WithNumber("duration_minutes", mcplib.Description("Meeting length in minutes."), mcplib.Required()),
		mcplib.WithString("start_time", mcplib.Description("ISO-8601 start time."), mcplib.Required()),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleCreateMeeting}
}

func (s *Server) handleCreateMeeting(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	duration, ok := intArg(req, "duration_minutes")
	if !ok {
		return s.rejected(service.OpCreateMeeting, "duration_minutes must be a whole number of minutes"), nil
	}
	title, _ := stringArg(req, "title")
	startTime, _ := stringArg(req, "start_time")

	resp, appErr := s.meetings.CreateMeeting(ctx, &dto.CreateMeetingRequest{
		Title:           title,
		Participants:    stringsArg(req, "participants"),
		DurationMinutes: duration,
		StartTime:       startTime,
	})
	if appErr != nil {
		return resultErr(appErr), nil
	}
	return resultJSON(resp), nil
}

// ─── list_users ───────────────────────────────────────────────────────────────

type userList struct {
	Success bool `json:"success"`
	*dto.UserListResponse
}

func (s *Server) toolListUsers() mcpsrv.ServerTool {
	tool := mcplib.NewTool(service.OpListUsers,
		mcplib.WithDescription("List all users with their time zone and work hours."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListUsers}
}

func (s *Server) handleListUsers(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	resp, appErr := s.meetings.ListUsers(ctx)
	if appErr != nil {
		return resultErr(appErr), nil
	}
	return resultJSON(userList{Success: true, UserListResponse: resp}), nil
}

// ─── list_meetings ────────────────────────────────────────────────────────────

type meetingList struct {
	Success bool `json:"success"`
	*dto.MeetingListResponse
}

func (s *Server) toolListMeetings() mcpsrv.ServerTool {
	tool := mcplib.NewTool(service.OpListMeetings,
		mcplib.WithDescription("List meetings, optionally only those a participant attends."),
		mcplib.WithString("participant", mcplib.Description("Optional user name or id to filter by.")),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListMeetings}
}

func (s *Server) handleListMeetings(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	participant, _ := stringArg(req, "participant")
	resp, appErr := s.meetings.ListMeetings(ctx, participant)
	if appErr != nil {
		return resultErr(appErr), nil
	}
	return resultJSON(meetingList{Success: true, MeetingListResponse: resp}), nil
}
