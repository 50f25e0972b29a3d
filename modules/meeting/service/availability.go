package service

import (
	"time"

	"smart-schedule/modules/meeting/entity"
)

// CheckAvailability decides whether user can attend [start, end) given the
// meetings they are in. Work hours compare time of day only; a slot that ends
// on a later date than it starts is never within them.
func CheckAvailability(user entity.User, start, end time.Time, meetings []entity.Meeting) entity.Availability {
	slot := entity.TimeSlot{Start: start, End: end}

	conflicts := []entity.MeetingConflict{}
	for _, m := range meetings {
		if m.Slot().Overlaps(slot) {
			conflicts = append(conflicts, entity.MeetingConflict{
				MeetingID:    m.ID,
				MeetingTitle: m.Title,
				MeetingTime:  m.TimeRange(),
			})
		}
	}

	return entity.Availability{
		User:        user.Name,
		Available:   len(conflicts) == 0,
		InWorkHours: inWorkHours(user.WorkHours, start, end),
		Conflicts:   conflicts,
	}
}

func inWorkHours(w entity.WorkHours, start, end time.Time) bool {
	end = end.In(start.Location())
	if !sameDay(start, end) {
		return false
	}
	ws, we := w.Window()
	return entity.ClockMinutes(start) >= ws && entity.ClockMinutes(end) <= we
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
