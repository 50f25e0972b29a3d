package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"smart-schedule/core/logger"
	"smart-schedule/core/storage"
	"smart-schedule/core/utils"
	"smart-schedule/modules/meeting/entity"
)

const (
	DefaultUsersKey    = "users.json"
	DefaultMeetingsKey = "meetings.json"
)

// meetingRecord is the on-disk shape: timestamps stay strings so naive ones
// can be read in the configured location.
type meetingRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
}

// JSONRepository stores both collections as flat JSON arrays in an object
// store: a local directory or an S3 bucket.
type JSONRepository struct {
	store       storage.ObjectStore
	usersKey    string
	meetingsKey string
	loc         *time.Location

	mu sync.Mutex
}

func NewJSONRepository(store storage.ObjectStore, usersKey, meetingsKey string, loc *time.Location) *JSONRepository {
	if usersKey == "" {
		usersKey = DefaultUsersKey
	}
	if meetingsKey == "" {
		meetingsKey = DefaultMeetingsKey
	}
	if loc == nil {
		loc = time.UTC
	}
	return &JSONRepository{store: store, usersKey: usersKey, meetingsKey: meetingsKey, loc: loc}
}

// NewFileRepository reads users.json and meetings.json from dir.
func NewFileRepository(dir string, loc *time.Location) *JSONRepository {
	return NewJSONRepository(storage.NewDirStore(dir), DefaultUsersKey, DefaultMeetingsKey, loc)
}

func (r *JSONRepository) read(ctx context.Context, key string, v any) error {
	b, err := r.store.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *JSONRepository) write(ctx context.Context, key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.store.PutObject(ctx, key, b, "application/json")
}

func (r *JSONRepository) GetUsers(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.read(ctx, r.usersKey, &users); err != nil {
		logger.Error("JSONRepository:GetUsers:Error", "key", r.usersKey, "error", err)
		return nil, err
	}
	return users, nil
}

func (r *JSONRepository) GetMeetings(ctx context.Context) ([]entity.Meeting, error) {
	records, err := r.meetingRecords(ctx)
	if err != nil {
		return nil, err
	}

	meetings := make([]entity.Meeting, 0, len(records))
	for _, rec := range records {
		m, err := r.toMeeting(rec)
		if err != nil {
			logger.Error("JSONRepository:GetMeetings:Decode:Error", "meeting_id", rec.ID, "error", err)
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}

func (r *JSONRepository) meetingRecords(ctx context.Context) ([]meetingRecord, error) {
	var records []meetingRecord
	if err := r.read(ctx, r.meetingsKey, &records); err != nil {
		logger.Error("JSONRepository:GetMeetings:Error", "key", r.meetingsKey, "error", err)
		return nil, err
	}
	return records, nil
}

func (r *JSONRepository) toMeeting(rec meetingRecord) (entity.Meeting, error) {
	start, err := utils.ParseTimestamp(rec.Start, r.loc)
	if err != nil {
		return entity.Meeting{}, fmt.Errorf("meeting %s start: %w", rec.ID, err)
	}
	end, err := utils.ParseTimestamp(rec.End, r.loc)
	if err != nil {
		return entity.Meeting{}, fmt.Errorf("meeting %s end: %w", rec.ID, err)
	}
	return entity.Meeting{
		ID:           rec.ID,
		Title:        rec.Title,
		Participants: rec.Participants,
		Start:        start,
		End:          end,
	}, nil
}

func toRecord(m *entity.Meeting) meetingRecord {
	return meetingRecord{
		ID:           m.ID,
		Title:        m.Title,
		Participants: m.Participants,
		Start:        m.Start.Format(time.RFC3339),
		End:          m.End.Format(time.RFC3339),
	}
}

func (r *JSONRepository) CreateMeeting(ctx context.Context, meeting *entity.Meeting) error {
	if err := meeting.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.meetingRecords(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.ID == meeting.ID {
			return fmt.Errorf("meeting %s already exists", meeting.ID)
		}
	}
	records = append(records, toRecord(meeting))
	if err := r.write(ctx, r.meetingsKey, records); err != nil {
		logger.Error("JSONRepository:CreateMeeting:Error", "meeting_id", meeting.ID, "error", err)
		return err
	}
	return nil
}

func (r *JSONRepository) UpsertMeeting(ctx context.Context, meeting *entity.Meeting) error {
	if err := meeting.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.meetingRecords(ctx)
	if err != nil {
		return err
	}
	rec := toRecord(meeting)
	replaced := false
	for i := range records {
		if records[i].ID == meeting.ID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	return r.write(ctx, r.meetingsKey, records)
}

func (r *JSONRepository) UpsertUser(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.GetUsers(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, *user)
	}
	return r.write(ctx, r.usersKey, users)
}
