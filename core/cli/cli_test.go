package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smart-schedule/core/utils"
	"smart-schedule/modules/meeting/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "mcp", "worker", "token", "seed"} {
		assert.True(t, names[want], want)
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("SMARTSCHEDULE_JWT_SECRET", "cli-test-secret")

	out, err := run(t, "token", "--subject", "u1")
	require.NoError(t, err)

	data, appErr := utils.ValidateAndParseToken(strings.TrimSpace(out))
	require.Nil(t, appErr)
	assert.Equal(t, "u1", data.Subject)
	assert.Equal(t, "access", data.Scope)
}

func TestTokenCommand_RequiresSubject(t *testing.T) {
	t.Setenv("SMARTSCHEDULE_JWT_SECRET", "cli-test-secret")

	_, err := run(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--subject")
}

func TestWorkerCommand_RequiresRedis(t *testing.T) {
	_, err := run(t, "worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("SMARTSCHEDULE_STORAGE_DRIVER", "mongo")

	_, err := run(t, "token", "--subject", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestSeedCommand(t *testing.T) {
	src := t.TempDir()
	dataDir := t.TempDir()
	t.Setenv("SMARTSCHEDULE_STORAGE_DRIVER", "file")
	t.Setenv("SMARTSCHEDULE_STORAGE_DATA_DIR", dataDir)

	users := filepath.Join(src, "people.json")
	meetings := filepath.Join(src, "events.json")
	require.NoError(t, os.WriteFile(users, []byte(`[{"id":"u1","name":"Alice","email":"alice@example.com"}]`), 0o600))
	require.NoError(t, os.WriteFile(meetings, []byte(`[{"id":"m1","title":"Standup","participants":["Alice"],"start":"2024-01-15T09:00:00Z","end":"2024-01-15T09:30:00Z"}]`), 0o600))

	out, err := run(t, "seed", "--users", users, "--meetings", meetings)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 users and 1 meetings")

	repo := repository.NewFileRepository(dataDir, nil)
	gotUsers, err := repo.GetUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, gotUsers, 1)
	assert.Equal(t, "Alice", gotUsers[0].Name)

	gotMeetings, err := repo.GetMeetings(t.Context())
	require.NoError(t, err)
	require.Len(t, gotMeetings, 1)
	assert.Equal(t, "Standup", gotMeetings[0].Title)
}

func TestSeedCommand_RequiresInput(t *testing.T) {
	t.Setenv("SMARTSCHEDULE_STORAGE_DATA_DIR", t.TempDir())

	_, err := run(t, "seed")
	require.Error(t, err)
}
