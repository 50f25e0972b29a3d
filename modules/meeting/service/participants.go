package service

import (
	"strings"

	"smart-schedule/core/constants"
	"smart-schedule/core/utils"
	"smart-schedule/modules/meeting/entity"
)

// ResolveParticipants maps requested names or ids to users. Anyone not found
// becomes a synthetic participant on UTC with default work hours. Blank names
// are dropped.
func ResolveParticipants(snap entity.Snapshot, requested []string) []entity.Participant {
	out := make([]entity.Participant, 0, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if u, ok := snap.FindUser(name); ok {
			out = append(out, entity.Participant{Kind: entity.ParticipantResolved, Requested: name, User: u})
			continue
		}
		out = append(out, entity.Participant{
			Kind:      entity.ParticipantSynthetic,
			Requested: name,
			User:      syntheticUser(name),
		})
	}
	return out
}

func syntheticUser(name string) entity.User {
	return entity.User{
		ID:       utils.SyntheticUserID(name),
		Name:     name,
		Timezone: constants.DefaultTimezone,
		WorkHours: entity.WorkHours{
			Start: constants.DefaultWorkStart,
			End:   constants.DefaultWorkEnd,
		},
	}
}
