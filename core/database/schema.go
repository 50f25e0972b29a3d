package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		timezone   TEXT NOT NULL DEFAULT 'UTC',
		work_start TEXT NOT NULL DEFAULT '',
		work_end   TEXT NOT NULL DEFAULT '',
		calendar   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		start_time   TIMESTAMPTZ NOT NULL,
		end_time     TIMESTAMPTZ NOT NULL,
		start_offset INTEGER NOT NULL DEFAULT 0,
		end_offset   INTEGER NOT NULL DEFAULT 0,
		CHECK (end_time > start_time)
	)`,
	`ALTER TABLE meetings ADD COLUMN IF NOT EXISTS start_offset INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE meetings ADD COLUMN IF NOT EXISTS end_offset INTEGER NOT NULL DEFAULT 0`,
	`CREATE TABLE IF NOT EXISTS meeting_participants (
		meeting_id  TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		participant TEXT NOT NULL,
		PRIMARY KEY (meeting_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_start ON meetings (start_time)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL,
		data       TEXT NOT NULL DEFAULT '{}',
		is_read    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		timezone   TEXT NOT NULL DEFAULT 'UTC',
		work_start TEXT NOT NULL DEFAULT '',
		work_end   TEXT NOT NULL DEFAULT '',
		calendar   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		start_time   DATETIME NOT NULL,
		end_time     DATETIME NOT NULL,
		start_offset INTEGER NOT NULL DEFAULT 0,
		end_offset   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS meeting_participants (
		meeting_id  TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		participant TEXT NOT NULL,
		PRIMARY KEY (meeting_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_start ON meetings (start_time)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL,
		data       TEXT NOT NULL DEFAULT '{}',
		is_read    BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at)`,
}
