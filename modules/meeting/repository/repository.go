package repository

import (
	"context"
	"fmt"

	"smart-schedule/modules/meeting/entity"
)

// MeetingRepositoryInterface is the users/meetings store the scheduling
// operations read from.
type MeetingRepositoryInterface interface {
	GetUsers(ctx context.Context) ([]entity.User, error)
	GetMeetings(ctx context.Context) ([]entity.Meeting, error)
	CreateMeeting(ctx context.Context, meeting *entity.Meeting) error
	UpsertUser(ctx context.Context, user *entity.User) error
	UpsertMeeting(ctx context.Context, meeting *entity.Meeting) error
}

// LoadSnapshot reads both collections for one operation.
func LoadSnapshot(ctx context.Context, repo MeetingRepositoryInterface) (entity.Snapshot, error) {
	users, err := repo.GetUsers(ctx)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("load users: %w", err)
	}
	meetings, err := repo.GetMeetings(ctx)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("load meetings: %w", err)
	}
	return entity.Snapshot{Users: users, Meetings: meetings}, nil
}
