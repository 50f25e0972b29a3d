package service

import (
	"fmt"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/errors"
	"smart-schedule/modules/meeting/dto"
	"smart-schedule/modules/meeting/entity"
)

// FindOptimalSlots ranks meeting slots for the requested participants over
// snap. It reads nothing but its arguments.
func FindOptimalSlots(snap entity.Snapshot, req *dto.FindSlotsRequest, loc *time.Location) (*dto.FindSlotsResponse, *errors.AppError) {
	if appErr := checkDuration(req.DurationMinutes); appErr != nil {
		return nil, appErr
	}
	firstDay, lastDay, appErr := ParseDateRange(req.DateRange, loc)
	if appErr != nil {
		return nil, appErr
	}

	participants := ResolveParticipants(snap, req.Participants)
	if len(participants) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "No valid participants found", nil)
	}

	slots := NewSlotFinder().FindAvailableSlots(participants, snap.Meetings, req.DurationMinutes, firstDay, lastDay)

	recommendations := make([]dto.Recommendation, 0, len(slots))
	for i, slot := range slots {
		recommendations = append(recommendations, dto.Recommendation{
			Rank:                  i + 1,
			Start:                 slot.Start.Format(time.RFC3339),
			End:                   slot.End.Format(time.RFC3339),
			Score:                 slot.Score,
			Confidence:            Confidence(slot),
			Reasoning:             Reasoning(slot),
			ParticipantsAvailable: slot.AvailableCount(),
			TotalParticipants:     len(participants),
			Availability:          slot.Availability,
		})
	}

	return &dto.FindSlotsResponse{
		Success:         true,
		Message:         fmt.Sprintf("Found %d optimal slots for %d participants", len(recommendations), len(participants)),
		Recommendations: recommendations,
		Participants:    participants,
		SearchCriteria: dto.SearchCriteria{
			Participants: req.Participants,
			Duration:     req.DurationMinutes,
			DateRange:    req.DateRange,
		},
	}, nil
}

// DetectSchedulingConflicts reports one user's meetings, conflicts and load in
// a window. Unknown users are NOT_FOUND.
func DetectSchedulingConflicts(snap entity.Snapshot, req *dto.DetectConflictsRequest, loc *time.Location) (*dto.ConflictReport, *errors.AppError) {
	user, ok := snap.FindUser(req.User)
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("User '%s' not found", req.User), nil)
	}
	start, end, appErr := ParseTimeRange(req.TimeRange, loc)
	if appErr != nil {
		return nil, appErr
	}

	analysis := NewConflictDetector().Detect(user, start, end, snap.Meetings)

	return &dto.ConflictReport{
		Success: true,
		User:    dto.ToUserSummary(user),
		TimeRange: dto.TimeRangeEcho{
			Start:         start.Format(time.RFC3339),
			End:           end.Format(time.RFC3339),
			DurationHours: end.Sub(start).Hours(),
		},
		MeetingsInRange: len(analysis.Meetings),
		ConflictsFound:  len(analysis.Conflicts),
		Conflicts:       analysis.Conflicts,
		Meetings:        analysis.Meetings,
		Insights:        analysis.Insights,
	}, nil
}

// checkDuration bounds a meeting length to (0, one day].
func checkDuration(minutes int) *errors.AppError {
	if minutes <= 0 || minutes > constants.MaxDurationMinutes {
		return errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("duration must be between 1 and %d minutes (got %d)", constants.MaxDurationMinutes, minutes), nil)
	}
	return nil
}
