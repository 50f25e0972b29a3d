package constants

import "time"

// Request handling
const (
	DefaultTimeout        = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	ContextTokenData      = "token_data"
	ContextRequestID      = "request_id"
	HeaderRequestID       = "X-Request-ID"
)

// Token scopes
const (
	ScopeTokenAccess = "access"
)

// Database pool
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Scheduling grid. Slots are anchored on the hour between SlotFirstHour and
// SlotLastHour inclusive and must end by SlotDayEndHour.
const (
	SlotFirstHour          = 9
	SlotLastHour           = 16
	SlotDayEndHour         = 17
	MaxRecommendations     = 5
	MaxDurationMinutes     = 24 * 60
	UnavailablePenalty     = 10
	OutsideWorkHourPenalty = 5
	DefaultWorkStart       = "09:00"
	DefaultWorkEnd         = "17:00"
	DefaultTimezone        = "UTC"
)

// Meeting load thresholds, in percent.
const (
	HighMeetingLoad     = 80.0
	ModerateMeetingLoad = 60.0
)

// Redis keys
const (
	RedisKeyRateLimit = "smart_schedule:rl"
)

// Queue
const (
	QueueDefault         = "default"
	TaskConflictScan     = "meeting:conflict_scan"
	TaskMaxRetry         = 3
	NotificationConflict = "schedule_conflict"
)
