package service

import (
	"math"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/modules/meeting/entity"
)

const outsideWorkHoursIssue = "Meeting scheduled outside work hours"

// Recommendation texts, in the order they are emitted.
const (
	RecommendResolveOverlaps = "Critical: Resolve overlapping meetings immediately"
	RecommendReschedule      = "Consider rescheduling meetings outside work hours"
	RecommendHighLoad        = "High meeting load detected - consider reducing meetings"
	RecommendModerateLoad    = "Moderate meeting load - monitor workload"
	RecommendAllGood         = "No conflicts detected - schedule looks good!"
)

// ConflictAnalysis is the outcome of checking one user's window.
type ConflictAnalysis struct {
	Meetings  []entity.MatchedMeeting
	Conflicts []entity.Conflict
	Insights  entity.Insights
}

type ConflictDetector struct{}

func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// Detect finds user's meetings in [start, end), overlaps between them and
// meetings outside work hours.
func (cd *ConflictDetector) Detect(user entity.User, start, end time.Time, meetings []entity.Meeting) ConflictAnalysis {
	window := entity.TimeSlot{Start: start, End: end}

	// 1. Meetings in the window
	inRange := []entity.Meeting{}
	matched := []entity.MatchedMeeting{}
	for _, m := range meetings {
		if !m.Includes(user) || !m.Slot().Overlaps(window) {
			continue
		}
		inRange = append(inRange, m)
		matched = append(matched, entity.MatchedMeeting{
			MeetingID:    m.ID,
			Title:        m.Title,
			Start:        m.Start.Format(time.RFC3339),
			End:          m.End.Format(time.RFC3339),
			Participants: m.Participants,
			OverlapStart: latest(start, m.Start).Format(time.RFC3339),
			OverlapEnd:   earliest(end, m.End).Format(time.RFC3339),
		})
	}

	// 2. Pairwise overlaps
	conflicts := []entity.Conflict{}
	for i := 0; i < len(inRange); i++ {
		for j := i + 1; j < len(inRange); j++ {
			a, b := inRange[i], inRange[j]
			if !a.Slot().Overlaps(b.Slot()) {
				continue
			}
			overlapStart := latest(a.Start, b.Start)
			overlapEnd := earliest(a.End, b.End)
			ref1, ref2 := entity.RefOf(a), entity.RefOf(b)
			conflicts = append(conflicts, entity.Conflict{
				Type:                   entity.ConflictOverlappingMeetings,
				Severity:               entity.SeverityHigh,
				Meeting1:               &ref1,
				Meeting2:               &ref2,
				OverlapDurationMinutes: overlapEnd.Sub(overlapStart).Minutes(),
				OverlapTime:            overlapStart.Format(time.RFC3339) + " to " + overlapEnd.Format(time.RFC3339),
			})
		}
	}

	// 3. Outside work hours
	ws, we := user.WorkHours.Window()
	for _, m := range inRange {
		startTOD, endTOD := entity.ClockMinutes(m.Start), entity.ClockMinutes(m.End)
		if startTOD >= ws && endTOD <= we {
			continue
		}
		ref := entity.RefOf(m)
		conflicts = append(conflicts, entity.Conflict{
			Type:      entity.ConflictOutsideWorkHours,
			Severity:  entity.SeverityMedium,
			Meeting:   &ref,
			WorkHours: user.WorkHours.String(),
			Issue:     outsideWorkHoursIssue,
		})
	}

	return ConflictAnalysis{
		Meetings:  matched,
		Conflicts: conflicts,
		Insights:  summarize(conflicts, inRange, start, end),
	}
}

func summarize(conflicts []entity.Conflict, meetings []entity.Meeting, start, end time.Time) entity.Insights {
	var total float64
	for _, m := range meetings {
		total += m.End.Sub(m.Start).Minutes()
	}

	var load float64
	if period := end.Sub(start).Minutes(); period > 0 {
		load = total / period * 100
	}

	var severity entity.SeverityCount
	for _, c := range conflicts {
		switch c.Severity {
		case entity.SeverityHigh:
			severity.High++
		case entity.SeverityMedium:
			severity.Medium++
		}
	}

	recommendations := []string{}
	if severity.High > 0 {
		recommendations = append(recommendations, RecommendResolveOverlaps)
	}
	if severity.Medium > 0 {
		recommendations = append(recommendations, RecommendReschedule)
	}
	if load > constants.HighMeetingLoad {
		recommendations = append(recommendations, RecommendHighLoad)
	} else if load > constants.ModerateMeetingLoad {
		recommendations = append(recommendations, RecommendModerateLoad)
	}
	if len(conflicts) == 0 {
		recommendations = append(recommendations, RecommendAllGood)
	}

	status := entity.StatusGood
	if severity.High > 0 {
		status = entity.StatusCritical
	} else if severity.Medium > 0 {
		status = entity.StatusWarning
	}

	return entity.Insights{
		MeetingLoadPercentage:   math.Round(load*10) / 10,
		TotalMeetingTimeMinutes: total,
		ConflictSeverity:        severity,
		Recommendations:         recommendations,
		Status:                  status,
	}
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
