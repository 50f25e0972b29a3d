package service

import (
	"encoding/json"
	"testing"
	"time"

	"smart-schedule/core/errors"
	"smart-schedule/modules/meeting/dto"
	"smart-schedule/modules/meeting/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func nineToFive() entity.WorkHours {
	return entity.WorkHours{Start: "09:00", End: "17:00"}
}

func testSnapshot() entity.Snapshot {
	return entity.Snapshot{
		Users: []entity.User{
			{ID: "u1", Name: "Alice", Timezone: "UTC", WorkHours: nineToFive()},
			{ID: "u2", Name: "Bob", Timezone: "UTC", WorkHours: nineToFive()},
			{ID: "u3", Name: "Carol", Timezone: "UTC", WorkHours: entity.WorkHours{Start: "10:00", End: "16:00"}},
		},
	}
}

func TestCheckAvailability(t *testing.T) {
	alice := testSnapshot().Users[0]
	meetings := []entity.Meeting{
		{ID: "m1", Title: "Standup", Start: at("2024-06-03", "10:00"), End: at("2024-06-03", "11:00")},
	}

	tests := []struct {
		name          string
		user          entity.User
		start, end    time.Time
		wantAvailable bool
		wantInHours   bool
		wantConflicts int
	}{
		{"free in hours", alice, at("2024-06-03", "09:00"), at("2024-06-03", "10:00"), true, true, 0},
		{"overlapping", alice, at("2024-06-03", "10:30"), at("2024-06-03", "11:30"), false, true, 1},
		{"adjacent after", alice, at("2024-06-03", "11:00"), at("2024-06-03", "12:00"), true, true, 0},
		{"before hours", alice, at("2024-06-03", "08:00"), at("2024-06-03", "09:00"), true, false, 0},
		{"ends after hours", alice, at("2024-06-03", "16:30"), at("2024-06-03", "17:30"), true, false, 0},
		{"crosses midnight", entity.User{Name: "Night Owl"}, at("2024-06-03", "23:30"), at("2024-06-04", "00:30"), true, false, 0},
		{"no hours means whole day", entity.User{Name: "Anyone"}, at("2024-06-03", "06:00"), at("2024-06-03", "07:00"), true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAvailability(tt.user, tt.start, tt.end, meetings)
			assert.Equal(t, tt.wantAvailable, got.Available)
			assert.Equal(t, tt.wantInHours, got.InWorkHours)
			assert.Len(t, got.Conflicts, tt.wantConflicts)
		})
	}
}

func TestCheckAvailability_ConflictDetails(t *testing.T) {
	meetings := []entity.Meeting{
		{ID: "m1", Title: "Standup", Start: at("2024-06-03", "10:00"), End: at("2024-06-03", "11:00")},
	}
	got := CheckAvailability(testSnapshot().Users[0], at("2024-06-03", "10:15"), at("2024-06-03", "10:45"), meetings)
	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, entity.MeetingConflict{
		MeetingID:    "m1",
		MeetingTitle: "Standup",
		MeetingTime:  "2024-06-03T10:00:00Z to 2024-06-03T11:00:00Z",
	}, got.Conflicts[0])
}

func TestResolveParticipants(t *testing.T) {
	got := ResolveParticipants(testSnapshot(), []string{"alice", "u2", "Dana Scully", "  "})
	require.Len(t, got, 3)

	assert.Equal(t, entity.ParticipantResolved, got[0].Kind)
	assert.Equal(t, "u1", got[0].User.ID)
	assert.Equal(t, entity.ParticipantResolved, got[1].Kind)
	assert.Equal(t, "Bob", got[1].User.Name)

	assert.True(t, got[2].IsSynthetic())
	assert.Equal(t, "guest-dana-scully", got[2].User.ID)
	assert.Equal(t, "UTC", got[2].User.Timezone)
	assert.Equal(t, nineToFive(), got[2].User.WorkHours)
}

func TestFindOptimalSlots_SkipsBusyHour(t *testing.T) {
	snap := testSnapshot()
	snap.Meetings = []entity.Meeting{
		{ID: "m1", Title: "Focus", Participants: []string{"Alice"}, Start: at("2024-06-03", "09:00"), End: at("2024-06-03", "10:00")},
	}

	resp, appErr := FindOptimalSlots(snap, &dto.FindSlotsRequest{
		Participants:    []string{"Alice", "Bob"},
		DurationMinutes: 30,
		DateRange:       "2024-06-03 to 2024-06-03",
	}, time.UTC)
	require.Nil(t, appErr)

	require.Len(t, resp.Recommendations, 5)
	assert.Equal(t, "Found 5 optimal slots for 2 participants", resp.Message)
	first := resp.Recommendations[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "2024-06-03T10:00:00Z", first.Start)
	assert.Equal(t, "2024-06-03T10:30:00Z", first.End)
	assert.Equal(t, "High", first.Confidence)
	assert.Equal(t, "Perfect slot: All 2 participants available during work hours", first.Reasoning)
	assert.Equal(t, 2, first.ParticipantsAvailable)
	assert.Equal(t, 2, first.TotalParticipants)

	busy := entity.TimeSlot{Start: at("2024-06-03", "09:00"), End: at("2024-06-03", "10:00")}
	for _, rec := range resp.Recommendations {
		start, _ := time.Parse(time.RFC3339, rec.Start)
		end, _ := time.Parse(time.RFC3339, rec.End)
		assert.False(t, busy.Overlaps(entity.TimeSlot{Start: start, End: end}), rec.Start)
	}
}

func TestFindOptimalSlots_WeekdaysAndDayEnd(t *testing.T) {
	resp, appErr := FindOptimalSlots(testSnapshot(), &dto.FindSlotsRequest{
		Participants:    []string{"Alice"},
		DurationMinutes: 90,
		DateRange:       "2024-06-01 to 2024-06-09",
	}, time.UTC)
	require.Nil(t, appErr)
	require.NotEmpty(t, resp.Recommendations)
	assert.LessOrEqual(t, len(resp.Recommendations), 5)

	prev := -1
	for _, rec := range resp.Recommendations {
		start, err := time.Parse(time.RFC3339, rec.Start)
		require.NoError(t, err)
		end, err := time.Parse(time.RFC3339, rec.End)
		require.NoError(t, err)

		assert.NotEqual(t, time.Saturday, start.Weekday())
		assert.NotEqual(t, time.Sunday, start.Weekday())
		dayEnd := time.Date(start.Year(), start.Month(), start.Day(), 17, 0, 0, 0, time.UTC)
		assert.False(t, end.After(dayEnd), rec.End)
		assert.GreaterOrEqual(t, rec.Score, prev)
		prev = rec.Score
	}
	assert.Equal(t, "2024-06-03T09:00:00Z", resp.Recommendations[0].Start)
}

func TestFindOptimalSlots_LongMeetingNeverFitsLateAnchors(t *testing.T) {
	slots := NewSlotFinder().generateTimeSlots(at("2024-06-03", "00:00"), at("2024-06-03", "00:00"), 90)
	require.Len(t, slots, 7)
	assert.Equal(t, 15, slots[len(slots)-1].Start.Hour())

	assert.Empty(t, NewSlotFinder().generateTimeSlots(at("2024-06-03", "00:00"), at("2024-06-03", "00:00"), 9*60))
}

func TestFindOptimalSlots_WorkHourPenalty(t *testing.T) {
	resp, appErr := FindOptimalSlots(testSnapshot(), &dto.FindSlotsRequest{
		Participants:    []string{"Alice", "Carol"},
		DurationMinutes: 60,
		DateRange:       "2024-06-03 to 2024-06-03",
	}, time.UTC)
	require.Nil(t, appErr)

	// Carol works 10:00-16:00, so 09:00 and 16:00 cost 5 and rank last.
	require.Len(t, resp.Recommendations, 5)
	for _, rec := range resp.Recommendations {
		assert.Equal(t, 0, rec.Score)
	}
	assert.Equal(t, "2024-06-03T10:00:00Z", resp.Recommendations[0].Start)

	all := NewSlotFinder()
	all.MaxResults = 10
	participants := ResolveParticipants(testSnapshot(), []string{"Alice", "Carol"})
	slots := all.FindAvailableSlots(participants, nil, 60, at("2024-06-03", "00:00"), at("2024-06-03", "00:00"))
	require.Len(t, slots, 8)
	last := slots[len(slots)-1]
	assert.Equal(t, 5, last.Score)
	assert.Equal(t, 16, last.Start.Hour())
	assert.Equal(t, "Medium", Confidence(last))
	assert.Equal(t, "Good slot: All participants available, 1 within work hours", Reasoning(last))
	assert.Equal(t, 9, slots[len(slots)-2].Start.Hour())
}

func TestFindOptimalSlots_PerfectSlotsAreClear(t *testing.T) {
	snap := testSnapshot()
	snap.Meetings = []entity.Meeting{
		{ID: "m1", Participants: []string{"u2"}, Start: at("2024-06-04", "11:00"), End: at("2024-06-04", "12:30")},
	}
	resp, appErr := FindOptimalSlots(snap, &dto.FindSlotsRequest{
		Participants:    []string{"Alice", "Bob", "Dana"},
		DurationMinutes: 45,
		DateRange:       "2024-06-04 to 2024-06-05",
	}, time.UTC)
	require.Nil(t, appErr)

	for _, rec := range resp.Recommendations {
		if rec.Score != 0 {
			continue
		}
		for _, a := range rec.Availability {
			assert.True(t, a.Available && a.InWorkHours, rec.Start)
		}
	}
	require.Len(t, resp.Participants, 3)
	assert.Equal(t, entity.ParticipantSynthetic, resp.Participants[2].Kind)
	assert.Equal(t, entity.ParticipantSynthetic, resp.Recommendations[0].Availability[2].Kind)
}

func TestFindOptimalSlots_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  dto.FindSlotsRequest
	}{
		{"no participants", dto.FindSlotsRequest{Participants: nil, DurationMinutes: 30, DateRange: "2024-06-03 to 2024-06-04"}},
		{"blank participants", dto.FindSlotsRequest{Participants: []string{" "}, DurationMinutes: 30, DateRange: "2024-06-03 to 2024-06-04"}},
		{"inverted range", dto.FindSlotsRequest{Participants: []string{"Alice"}, DurationMinutes: 30, DateRange: "2024-06-05 to 2024-06-04"}},
		{"malformed range", dto.FindSlotsRequest{Participants: []string{"Alice"}, DurationMinutes: 30, DateRange: "next week"}},
		{"bad date", dto.FindSlotsRequest{Participants: []string{"Alice"}, DurationMinutes: 30, DateRange: "2024-13-01 to 2024-13-02"}},
		{"zero duration", dto.FindSlotsRequest{Participants: []string{"Alice"}, DurationMinutes: 0, DateRange: "2024-06-03 to 2024-06-04"}},
		{"duration longer than a day", dto.FindSlotsRequest{Participants: []string{"Alice"}, DurationMinutes: 24*60 + 1, DateRange: "2024-06-03 to 2024-06-04"}},
		{"duration overflowing time.Duration", dto.FindSlotsRequest{Participants: []string{"Alice"}, DurationMinutes: 200000000, DateRange: "2024-06-03 to 2024-06-03"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, appErr := FindOptimalSlots(testSnapshot(), &tt.req, time.UTC)
			assert.Nil(t, resp)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestSlotFinder_NeverEmitsInvertedSlots(t *testing.T) {
	day := at("2024-06-03", "00:00")
	slots := NewSlotFinder().generateTimeSlots(day, day, 200000000)
	assert.Empty(t, slots)

	for _, slot := range NewSlotFinder().generateTimeSlots(day, day, 24*60) {
		assert.True(t, slot.End.After(slot.Start))
	}
}

func overlapSnapshot() entity.Snapshot {
	snap := testSnapshot()
	snap.Meetings = []entity.Meeting{
		{ID: "m1", Title: "Planning", Participants: []string{"Alice", "Bob"}, Start: at("2024-06-03", "10:00"), End: at("2024-06-03", "11:00")},
		{ID: "m2", Title: "Review", Participants: []string{"u1"}, Start: at("2024-06-03", "10:30"), End: at("2024-06-03", "11:30")},
		{ID: "m3", Title: "Other team", Participants: []string{"Bob"}, Start: at("2024-06-03", "10:00"), End: at("2024-06-03", "12:00")},
	}
	return snap
}

func TestDetectSchedulingConflicts_Overlap(t *testing.T) {
	resp, appErr := DetectSchedulingConflicts(overlapSnapshot(), &dto.DetectConflictsRequest{
		User:      "alice",
		TimeRange: "2024-06-03T00:00 to 2024-06-03T23:59",
	}, time.UTC)
	require.Nil(t, appErr)

	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, 2, resp.MeetingsInRange)
	require.Equal(t, 1, resp.ConflictsFound)

	c := resp.Conflicts[0]
	assert.Equal(t, entity.ConflictOverlappingMeetings, c.Type)
	assert.Equal(t, entity.SeverityHigh, c.Severity)
	assert.Equal(t, 30.0, c.OverlapDurationMinutes)
	assert.Equal(t, "2024-06-03T10:30:00Z to 2024-06-03T11:00:00Z", c.OverlapTime)
	assert.Equal(t, "m1", c.Meeting1.ID)
	assert.Equal(t, "m2", c.Meeting2.ID)

	assert.Equal(t, entity.StatusCritical, resp.Insights.Status)
	assert.Equal(t, entity.SeverityCount{High: 1}, resp.Insights.ConflictSeverity)
	assert.Equal(t, []string{RecommendResolveOverlaps}, resp.Insights.Recommendations)
	assert.Equal(t, 120.0, resp.Insights.TotalMeetingTimeMinutes)
	assert.Equal(t, 8.3, resp.Insights.MeetingLoadPercentage)
	assert.InDelta(t, 23.98, resp.TimeRange.DurationHours, 0.01)
}

func TestDetectSchedulingConflicts_ClipsToWindow(t *testing.T) {
	resp, appErr := DetectSchedulingConflicts(overlapSnapshot(), &dto.DetectConflictsRequest{
		User:      "Bob",
		TimeRange: "2024-06-03T10:30:00Z to 2024-06-03T11:00:00Z",
	}, time.UTC)
	require.Nil(t, appErr)

	require.Len(t, resp.Meetings, 2)
	assert.Equal(t, "2024-06-03T10:30:00Z", resp.Meetings[0].OverlapStart)
	assert.Equal(t, "2024-06-03T11:00:00Z", resp.Meetings[0].OverlapEnd)
	assert.Equal(t, "m3", resp.Meetings[1].MeetingID)
}

func TestDetectSchedulingConflicts_OutsideWorkHours(t *testing.T) {
	snap := testSnapshot()
	snap.Meetings = []entity.Meeting{
		{ID: "m7", Title: "Early call", Participants: []string{"Alice"}, Start: at("2024-06-03", "07:00"), End: at("2024-06-03", "07:30")},
	}
	resp, appErr := DetectSchedulingConflicts(snap, &dto.DetectConflictsRequest{
		User:      "Alice",
		TimeRange: "2024-06-03T00:00 to 2024-06-03T23:59",
	}, time.UTC)
	require.Nil(t, appErr)

	require.Len(t, resp.Conflicts, 1)
	c := resp.Conflicts[0]
	assert.Equal(t, entity.ConflictOutsideWorkHours, c.Type)
	assert.Equal(t, entity.SeverityMedium, c.Severity)
	assert.Equal(t, "m7", c.Meeting.ID)
	assert.Equal(t, "09:00 to 17:00", c.WorkHours)
	assert.Equal(t, entity.StatusWarning, resp.Insights.Status)
	assert.Equal(t, []string{RecommendReschedule}, resp.Insights.Recommendations)
}

func TestDetectSchedulingConflicts_EmptyWindow(t *testing.T) {
	resp, appErr := DetectSchedulingConflicts(overlapSnapshot(), &dto.DetectConflictsRequest{
		User:      "Carol",
		TimeRange: "2024-06-03T09:00 to 2024-06-03T09:00",
	}, time.UTC)
	require.Nil(t, appErr)

	assert.Equal(t, 0, resp.MeetingsInRange)
	assert.Equal(t, 0.0, resp.Insights.MeetingLoadPercentage)
	assert.Equal(t, entity.StatusGood, resp.Insights.Status)
	assert.Equal(t, []string{RecommendAllGood}, resp.Insights.Recommendations)
	assert.NotNil(t, resp.Conflicts)
	assert.NotNil(t, resp.Meetings)
}

func TestDetectSchedulingConflicts_LoadThresholds(t *testing.T) {
	snap := testSnapshot()
	snap.Meetings = []entity.Meeting{
		{ID: "a", Participants: []string{"Alice"}, Start: at("2024-06-03", "09:00"), End: at("2024-06-03", "10:10")},
		{ID: "b", Participants: []string{"Alice"}, Start: at("2024-06-03", "10:10"), End: at("2024-06-03", "11:00")},
	}

	high, appErr := DetectSchedulingConflicts(snap, &dto.DetectConflictsRequest{User: "Alice", TimeRange: "2024-06-03T09:00 to 2024-06-03T11:00"}, time.UTC)
	require.Nil(t, appErr)
	assert.Equal(t, 100.0, high.Insights.MeetingLoadPercentage)
	assert.Equal(t, []string{RecommendHighLoad, RecommendAllGood}, high.Insights.Recommendations)

	moderate, appErr := DetectSchedulingConflicts(snap, &dto.DetectConflictsRequest{User: "Alice", TimeRange: "2024-06-03T09:00 to 2024-06-03T12:00"}, time.UTC)
	require.Nil(t, appErr)
	assert.Equal(t, 66.7, moderate.Insights.MeetingLoadPercentage)
	assert.Equal(t, []string{RecommendModerateLoad, RecommendAllGood}, moderate.Insights.Recommendations)
	assert.LessOrEqual(t, moderate.Insights.MeetingLoadPercentage, 100.0)
}

func TestDetectSchedulingConflicts_Errors(t *testing.T) {
	_, appErr := DetectSchedulingConflicts(testSnapshot(), &dto.DetectConflictsRequest{User: "zed", TimeRange: "2024-06-03T00:00 to 2024-06-03T01:00"}, time.UTC)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
	assert.Equal(t, "User 'zed' not found", appErr.Message)

	for _, rng := range []string{"2024-06-03T10:00 to 2024-06-03T09:00", "yesterday", "2024-06-03T10:00 to later"} {
		_, appErr = DetectSchedulingConflicts(testSnapshot(), &dto.DetectConflictsRequest{User: "Alice", TimeRange: rng}, time.UTC)
		require.NotNil(t, appErr, rng)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code, rng)
	}
}

func TestDetectSchedulingConflicts_Deterministic(t *testing.T) {
	req := &dto.DetectConflictsRequest{User: "Alice", TimeRange: "2024-06-03T00:00 to 2024-06-03T23:59"}

	first, appErr := DetectSchedulingConflicts(overlapSnapshot(), req, time.UTC)
	require.Nil(t, appErr)
	second, appErr := DetectSchedulingConflicts(overlapSnapshot(), req, time.UTC)
	require.Nil(t, appErr)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestParseDateRange_Location(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	from, to, appErr := ParseDateRange(" 2024-06-03 to 2024-06-07 ", tokyo)
	require.Nil(t, appErr)
	assert.Equal(t, tokyo, from.Location())
	assert.Equal(t, 7, to.Day())
}

func TestRecommendationTexts(t *testing.T) {
	assert.Equal(t, "Critical: Resolve overlapping meetings immediately", RecommendResolveOverlaps)
	assert.Equal(t, "Consider rescheduling meetings outside work hours", RecommendReschedule)
	assert.Equal(t, "High meeting load detected - consider reducing meetings", RecommendHighLoad)
	assert.Equal(t, "Moderate meeting load - monitor workload", RecommendModerateLoad)
	assert.Equal(t, "No conflicts detected - schedule looks good!", RecommendAllGood)
}
