package entity

// ParticipantKind says whether a requested attendee matched a known user.
type ParticipantKind string

const (
	ParticipantResolved  ParticipantKind = "resolved"
	ParticipantSynthetic ParticipantKind = "synthetic"
)

// Participant is an attendee of a slot search. Synthetic participants were not
// found among the users and carry default hours.
type Participant struct {
	Kind ParticipantKind `json:"kind"`
	// Requested is the name or id as given by the caller.
	Requested string `json:"requested"`
	User      User   `json:"user"`
}

func (p Participant) IsSynthetic() bool {
	return p.Kind == ParticipantSynthetic
}
