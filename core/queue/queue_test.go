package queue

import (
	"errors"
	"testing"
	"time"

	"smart-schedule/core/constants"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictScanTask(t *testing.T) {
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	in := ConflictScanPayload{
		MeetingID:    "mAb12Cd",
		Title:        "Planning",
		Participants: []string{"Alice", "Bob"},
		Start:        start,
		End:          start.Add(time.Hour),
	}

	task, err := NewConflictScanTask(in)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskConflictScan, task.Type())

	out, err := ParseConflictScan(task)
	require.NoError(t, err)
	assert.Equal(t, in.MeetingID, out.MeetingID)
	assert.Equal(t, in.Participants, out.Participants)
	assert.True(t, in.Start.Equal(out.Start))
}

func TestParseConflictScan_BadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(constants.TaskConflictScan, []byte("{not json"))
	_, err := ParseConflictScan(task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
