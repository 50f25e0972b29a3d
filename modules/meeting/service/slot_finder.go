package service

import (
	"fmt"
	"sort"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/modules/meeting/entity"
)

// SlotFinder ranks fixed hourly slots across a date range by how well every
// participant can attend.
type SlotFinder struct {
	// FirstHour and LastHour bound the hourly anchors, inclusive.
	FirstHour int
	LastHour  int
	// DayEndHour is the latest a slot may end.
	DayEndHour int
	MaxResults int
}

func NewSlotFinder() *SlotFinder {
	return &SlotFinder{
		FirstHour:  constants.SlotFirstHour,
		LastHour:   constants.SlotLastHour,
		DayEndHour: constants.SlotDayEndHour,
		MaxResults: constants.MaxRecommendations,
	}
}

// FindAvailableSlots returns at most MaxResults slots, best first. Slots with
// any unavailable participant are dropped; ties keep grid order.
func (sf *SlotFinder) FindAvailableSlots(
	participants []entity.Participant,
	meetings []entity.Meeting,
	durationMinutes int,
	firstDay time.Time,
	lastDay time.Time,
) []entity.CandidateSlot {

	// 1. Each participant's own meetings
	busy := make([][]entity.Meeting, len(participants))
	for i, p := range participants {
		busy[i] = entity.Snapshot{Meetings: meetings}.MeetingsFor(p.User)
	}

	// 2. Generate the grid
	grid := sf.generateTimeSlots(firstDay, lastDay, durationMinutes)

	// 3. Score and drop hard conflicts
	scored := make([]entity.CandidateSlot, 0, len(grid))
	for _, slot := range grid {
		candidate := sf.scoreSlot(slot, participants, busy)
		if candidate.Score >= constants.UnavailablePenalty {
			continue
		}
		scored = append(scored, candidate)
	}

	// 4. Best first, grid order within a score
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})

	if len(scored) > sf.MaxResults {
		return scored[:sf.MaxResults]
	}
	return scored
}

// generateTimeSlots lays out hourly anchors on weekdays from firstDay to
// lastDay inclusive, skipping any slot that would end after DayEndHour.
func (sf *SlotFinder) generateTimeSlots(firstDay, lastDay time.Time, durationMinutes int) []entity.TimeSlot {
	slots := []entity.TimeSlot{}
	duration := time.Duration(durationMinutes) * time.Minute
	loc := firstDay.Location()

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if weekday := day.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
			continue
		}
		y, m, d := day.Date()
		dayEnd := time.Date(y, m, d, sf.DayEndHour, 0, 0, 0, loc)

		for hour := sf.FirstHour; hour <= sf.LastHour; hour++ {
			start := time.Date(y, m, d, hour, 0, 0, 0, loc)
			end := start.Add(duration)
			if !end.After(start) || end.After(dayEnd) {
				continue
			}
			slots = append(slots, entity.TimeSlot{Start: start, End: end})
		}
	}

	return slots
}

func (sf *SlotFinder) scoreSlot(slot entity.TimeSlot, participants []entity.Participant, busy [][]entity.Meeting) entity.CandidateSlot {
	candidate := entity.CandidateSlot{
		TimeSlot:     slot,
		Availability: make([]entity.Availability, 0, len(participants)),
	}
	for i, p := range participants {
		a := CheckAvailability(p.User, slot.Start, slot.End, busy[i])
		a.Kind = p.Kind
		if !a.Available {
			candidate.Score += constants.UnavailablePenalty
		}
		if !a.InWorkHours {
			candidate.Score += constants.OutsideWorkHourPenalty
		}
		candidate.Availability = append(candidate.Availability, a)
	}
	return candidate
}

// Confidence labels a slot High only when nothing counts against it.
func Confidence(slot entity.CandidateSlot) string {
	if slot.Score == 0 {
		return "High"
	}
	return "Medium"
}

// Reasoning explains a slot in one sentence.
func Reasoning(slot entity.CandidateSlot) string {
	total := len(slot.Availability)
	available := slot.AvailableCount()

	switch {
	case slot.Score == 0:
		return fmt.Sprintf("Perfect slot: All %d participants available during work hours", available)
	case available == total:
		return fmt.Sprintf("Good slot: All participants available, %d within work hours", slot.InWorkHoursCount())
	default:
		return fmt.Sprintf("Suboptimal: %d/%d participants available", available, total)
	}
}
