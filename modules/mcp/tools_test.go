package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleFindOptimalSlots(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		wantIsError bool
		wantCode    string
		wantText    string
	}{
		{
			name: "ranks free slots",
			args: map[string]any{
				"participants":     []any{"Alice", "Bob"},
				"duration_minutes": float64(60),
				"date_range":       "2024-01-15 to 2024-01-15",
			},
			wantText: `"rank":1`,
		},
		{
			name: "unknown participants become guests",
			args: map[string]any{
				"participants":     "Carol",
				"duration_minutes": float64(30),
				"date_range":       "2024-01-15 to 2024-01-16",
			},
			wantText: `"synthetic"`,
		},
		{
			name: "inverted date range",
			args: map[string]any{
				"participants":     []any{"Alice"},
				"duration_minutes": float64(30),
				"date_range":       "2024-01-16 to 2024-01-15",
			},
			wantIsError: true,
			wantCode:    "INVALID_INPUT",
		},
		{
			name: "no participants",
			args: map[string]any{
				"participants":     []any{},
				"duration_minutes": float64(30),
				"date_range":       "2024-01-15 to 2024-01-15",
			},
			wantIsError: true,
			wantText:    "No valid participants found",
		},
		{
			name:        "missing duration",
			args:        map[string]any{"participants": []any{"Alice"}, "date_range": "2024-01-15 to 2024-01-15"},
			wantIsError: true,
			wantText:    "duration_minutes must be a whole number of minutes",
		},
		{
			name:        "fractional duration",
			args:        map[string]any{"participants": []any{"Alice"}, "duration_minutes": 30.9, "date_range": "2024-01-15 to 2024-01-15"},
			wantIsError: true,
			wantCode:    "INVALID_INPUT",
		},
		{
			name:        "duration longer than a day",
			args:        map[string]any{"participants": []any{"Alice"}, "duration_minutes": float64(200000000), "date_range": "2024-01-15 to 2024-01-15"},
			wantIsError: true,
			wantCode:    "INVALID_INPUT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestServer(t)
			result, err := env.srv.handleFindOptimalSlots(context.Background(), toolReq(tt.args))
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantIsError, result.IsError)
			if tt.wantIsError {
				body := decodeResult(t, result)
				assert.Equal(t, false, body["success"])
				if tt.wantCode != "" {
					assert.Equal(t, tt.wantCode, body["code"])
				}
			}
			if tt.wantText != "" {
				assert.Contains(t, firstText(t, result), tt.wantText)
			}
		})
	}
}

func TestHandleFindOptimalSlots_SkipsBusyHours(t *testing.T) {
	env := newTestServer(t)
	result, err := env.srv.handleFindOptimalSlots(context.Background(), toolReq(map[string]any{
		"participants":     []any{"Alice"},
		"duration_minutes": float64(60),
		"date_range":       "2024-01-15 to 2024-01-15",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	body := decodeResult(t, result)
	assert.Equal(t, true, body["success"])
	recs := body["recommendations"].([]any)
	require.Len(t, recs, 5)
	first := recs[0].(map[string]any)
	assert.Equal(t, "2024-01-15T11:00:00Z", first["start"])
	assert.Equal(t, "High", first["confidence"])
}

func TestHandleDetectSchedulingConflicts(t *testing.T) {
	env := newTestServer(t)

	result, err := env.srv.handleDetectSchedulingConflicts(context.Background(), toolReq(map[string]any{
		"user":       "alice",
		"time_range": "2024-01-15T08:00:00 to 2024-01-15T12:00:00",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, firstText(t, result))

	body := decodeResult(t, result)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["meetings_in_range"])
	assert.EqualValues(t, 1, body["conflicts_found"])
	insights := body["insights"].(map[string]any)
	assert.Equal(t, "critical", insights["status"])

	result, err = env.srv.handleDetectSchedulingConflicts(context.Background(), toolReq(map[string]any{
		"user":       "zed",
		"time_range": "2024-01-15T08:00:00 to 2024-01-15T12:00:00",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	body = decodeResult(t, result)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "User 'zed' not found", body["error"])

	result, err = env.srv.handleDetectSchedulingConflicts(context.Background(), toolReq(map[string]any{
		"user":       "alice",
		"time_range": "yesterday",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = env.srv.handleDetectSchedulingConflicts(context.Background(), toolReq(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, firstText(t, result), "user is required")
}

func TestHandleCheckAvailability(t *testing.T) {
	env := newTestServer(t)
	result, err := env.srv.handleCheckAvailability(context.Background(), toolReq(map[string]any{
		"user":  "Bob",
		"start": "2024-01-15T11:00:00Z",
		"end":   "2024-01-15T12:00:00Z",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	body := decodeResult(t, result)
	assert.Equal(t, true, body["available"])

	result, err = env.srv.handleCheckAvailability(context.Background(), toolReq(map[string]any{"user": "Bob"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleCreateMeeting_ThenList(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()

	result, err := env.srv.handleCreateMeeting(ctx, toolReq(map[string]any{
		"title":            "Retro",
		"participants":     []any{"Bob"},
		"duration_minutes": float64(45),
		"start_time":       "2024-01-16T15:00:00Z",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, firstText(t, result))
	body := decodeResult(t, result)
	meeting := body["meeting"].(map[string]any)
	assert.Equal(t, "2024-01-16T15:45:00Z", meeting["end"])
	assert.Contains(t, body["message"], "Meeting 'Retro' scheduled")

	result, err = env.srv.handleListMeetings(ctx, toolReq(map[string]any{"participant": "bob"}))
	require.NoError(t, err)
	body = decodeResult(t, result)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["total_items"])

	result, err = env.srv.handleCreateMeeting(ctx, toolReq(map[string]any{
		"title":            "",
		"participants":     []any{"Bob"},
		"duration_minutes": float64(45),
		"start_time":       "2024-01-16T15:00:00Z",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleListUsers(t *testing.T) {
	env := newTestServer(t)
	result, err := env.srv.handleListUsers(context.Background(), toolReq(nil))
	require.NoError(t, err)
	body := decodeResult(t, result)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["total_items"])
	items := body["items"].([]any)
	assert.Equal(t, []any{"09:00", "17:00"}, items[0].(map[string]any)["work_hours"])
}
