package repository

import (
	"context"
	"fmt"
	"time"

	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/modules/meeting/entity"

	"github.com/jmoiron/sqlx"
)

// MeetingRepository stores users and meetings in postgres or sqlite.
type MeetingRepository struct {
	DB  database.IDatabase
	loc *time.Location
}

func NewMeetingRepository(db database.IDatabase, loc *time.Location) *MeetingRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &MeetingRepository{DB: db, loc: loc}
}

type userRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Timezone  string `db:"timezone"`
	WorkStart string `db:"work_start"`
	WorkEnd   string `db:"work_end"`
	Calendar  string `db:"calendar"`
}

type meetingRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	// Offsets are seconds east of UTC as the meeting was written; work-hour
	// checks read the clock in that offset.
	StartOffset int `db:"start_offset"`
	EndOffset   int `db:"end_offset"`
}

type participantRow struct {
	MeetingID   string `db:"meeting_id"`
	Position    int    `db:"position"`
	Participant string `db:"participant"`
}

// ===================== Users =====================

func (r *MeetingRepository) GetUsers(ctx context.Context) ([]entity.User, error) {
	query := `SELECT id, name, timezone, work_start, work_end, calendar FROM users ORDER BY id`

	var rows []userRow
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		logger.Error("MeetingRepository:GetUsers", "error", err)
		return nil, err
	}

	users := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, entity.User{
			ID:        row.ID,
			Name:      row.Name,
			Timezone:  row.Timezone,
			WorkHours: entity.WorkHours{Start: row.WorkStart, End: row.WorkEnd},
			Calendar:  row.Calendar,
		})
	}
	return users, nil
}

func (r *MeetingRepository) UpsertUser(ctx context.Context, user *entity.User) error {
	query := r.DB.Rebind(`
		INSERT INTO users (id, name, timezone, work_start, work_end, calendar)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			timezone = excluded.timezone,
			work_start = excluded.work_start,
			work_end = excluded.work_end,
			calendar = excluded.calendar
	`)

	timezone := user.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	err := r.DB.ExecContext(ctx, query,
		user.ID, user.Name, timezone, user.WorkHours.Start, user.WorkHours.End, user.Calendar)
	if err != nil {
		logger.Error("MeetingRepository:UpsertUser", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

// ===================== Meetings =====================

func (r *MeetingRepository) GetMeetings(ctx context.Context) ([]entity.Meeting, error) {
	var rows []meetingRow
	err := r.DB.SelectContext(ctx, &rows,
		`SELECT id, title, start_time, end_time, start_offset, end_offset FROM meetings ORDER BY start_time, id`)
	if err != nil {
		logger.Error("MeetingRepository:GetMeetings", "error", err)
		return nil, err
	}

	var parts []participantRow
	err = r.DB.SelectContext(ctx, &parts,
		`SELECT meeting_id, position, participant FROM meeting_participants ORDER BY meeting_id, position`)
	if err != nil {
		logger.Error("MeetingRepository:GetMeetings:Participants", "error", err)
		return nil, err
	}

	byMeeting := make(map[string][]string, len(rows))
	for _, p := range parts {
		byMeeting[p.MeetingID] = append(byMeeting[p.MeetingID], p.Participant)
	}

	meetings := make([]entity.Meeting, 0, len(rows))
	for _, row := range rows {
		participants := byMeeting[row.ID]
		if participants == nil {
			participants = []string{}
		}
		meetings = append(meetings, entity.Meeting{
			ID:           row.ID,
			Title:        row.Title,
			Participants: participants,
			Start:        r.restoreOffset(row.StartTime, row.StartOffset),
			End:          r.restoreOffset(row.EndTime, row.EndOffset),
		})
	}
	return meetings, nil
}

// restoreOffset puts t back in the offset it was stored with, preferring the
// configured location when it agrees.
func (r *MeetingRepository) restoreOffset(t time.Time, offset int) time.Time {
	local := t.In(r.loc)
	if _, off := local.Zone(); off == offset {
		return local
	}
	return t.In(time.FixedZone("", offset))
}

func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting *entity.Meeting) error {
	return r.saveMeeting(ctx, meeting, false)
}

func (r *MeetingRepository) UpsertMeeting(ctx context.Context, meeting *entity.Meeting) error {
	return r.saveMeeting(ctx, meeting, true)
}

func (r *MeetingRepository) saveMeeting(ctx context.Context, meeting *entity.Meeting, upsert bool) (err error) {
	if err := meeting.Validate(); err != nil {
		return err
	}

	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("MeetingRepository:SaveMeeting:Begin", "error", err)
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `INSERT INTO meetings (id, title, start_time, end_time, start_offset, end_offset) VALUES (?, ?, ?, ?, ?, ?)`
	if upsert {
		query += ` ON CONFLICT (id) DO UPDATE SET title = excluded.title,
			start_time = excluded.start_time, end_time = excluded.end_time,
			start_offset = excluded.start_offset, end_offset = excluded.end_offset`
	}
	_, startOffset := meeting.Start.Zone()
	_, endOffset := meeting.End.Zone()
	if _, err = tx.ExecContext(ctx, tx.Rebind(query),
		meeting.ID, meeting.Title, meeting.Start.UTC(), meeting.End.UTC(), startOffset, endOffset); err != nil {
		logger.Error("MeetingRepository:SaveMeeting", "meeting_id", meeting.ID, "error", err)
		return fmt.Errorf("save meeting %s: %w", meeting.ID, err)
	}

	if err = replaceParticipants(ctx, tx, meeting); err != nil {
		logger.Error("MeetingRepository:SaveMeeting:Participants", "meeting_id", meeting.ID, "error", err)
		return err
	}

	return tx.Commit()
}

func replaceParticipants(ctx context.Context, tx *sqlx.Tx, meeting *entity.Meeting) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM meeting_participants WHERE meeting_id = ?`), meeting.ID); err != nil {
		return err
	}
	insert := tx.Rebind(`INSERT INTO meeting_participants (meeting_id, position, participant) VALUES (?, ?, ?)`)
	for i, p := range meeting.Participants {
		if _, err := tx.ExecContext(ctx, insert, meeting.ID, i, p); err != nil {
			return fmt.Errorf("save participant %q: %w", p, err)
		}
	}
	return nil
}
