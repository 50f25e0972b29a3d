package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smart-schedule/core/errors"
	"smart-schedule/core/storage"
	"smart-schedule/modules/calendar/dto"
	"smart-schedule/modules/calendar/entity"
	meetingEntity "smart-schedule/modules/meeting/entity"
	"smart-schedule/modules/meeting/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	server     *httptest.Server
	tokenCalls atomic.Int32
	paths      []string
	queries    []string
}

func newFakeGoogle(t *testing.T, pages map[string]entity.EventList) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "rt-1", r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/calendars/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.paths = append(f.paths, r.URL.Path)
		f.queries = append(f.queries, r.URL.RawQuery)
		list, ok := pages[r.URL.Query().Get("pageToken")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGoogle) config() GoogleConfig {
	return GoogleConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "rt-1",
		BaseURL:      f.server.URL,
		TokenURL:     f.server.URL + "/token",
	}
}

func newRepo(t *testing.T) *repository.JSONRepository {
	t.Helper()
	repo := repository.NewJSONRepository(storage.NewMemoryStore(), repository.DefaultUsersKey, repository.DefaultMeetingsKey, time.UTC)
	require.NoError(t, repo.UpsertUser(context.Background(), &meetingEntity.User{
		ID:        "u1",
		Name:      "Alice",
		Timezone:  "UTC",
		WorkHours: meetingEntity.WorkHours{Start: "09:00", End: "17:00"},
		Calendar:  "alice@example.com",
	}))
	return repo
}

func timed(id, summary, start, end string) entity.GoogleEvent {
	return entity.GoogleEvent{
		ID:      id,
		Status:  "confirmed",
		Summary: summary,
		Start:   entity.EventTime{DateTime: start},
		End:     entity.EventTime{DateTime: end},
	}
}

func TestSyncUser_ImportsTimedEvents(t *testing.T) {
	google := newFakeGoogle(t, map[string]entity.EventList{
		"": {
			Items: []entity.GoogleEvent{
				timed("e1", "Design review", "2024-01-15T10:00:00+01:00", "2024-01-15T11:00:00+01:00"),
				{ID: "e2", Status: "confirmed", Summary: "Holiday", Start: entity.EventTime{Date: "2024-01-16"}, End: entity.EventTime{Date: "2024-01-17"}},
			},
			NextPageToken: "p2",
		},
		"p2": {
			Items: []entity.GoogleEvent{
				timed("e3", "", "2024-01-17T14:00:00Z", "2024-01-17T14:30:00Z"),
				{ID: "e4", Status: entity.EventStatusCancelled, Start: entity.EventTime{DateTime: "2024-01-18T09:00:00Z"}, End: entity.EventTime{DateTime: "2024-01-18T10:00:00Z"}},
			},
		},
	})
	repo := newRepo(t)
	svc := NewCalendarService(repo, google.config(), time.UTC)

	resp, appErr := svc.SyncUser(context.Background(), &dto.SyncRequest{User: "alice", From: "2024-01-15", To: "2024-01-20"})
	require.Nil(t, appErr)

	assert.Equal(t, "Alice", resp.User)
	assert.Equal(t, "alice@example.com", resp.CalendarID)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 2, resp.Skipped)
	assert.Equal(t, int32(1), google.tokenCalls.Load())
	require.Len(t, google.paths, 2)
	assert.Equal(t, "/calendars/alice@example.com/events", google.paths[0])
	assert.Contains(t, google.queries[0], "singleEvents=true")
	assert.Contains(t, google.queries[0], "orderBy=startTime")
	assert.Contains(t, google.queries[0], "timeMin=2024-01-15T00%3A00%3A00Z")

	meetings, err := repo.GetMeetings(context.Background())
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, "g-e1", meetings[0].ID)
	assert.Equal(t, "Design review", meetings[0].Title)
	assert.Equal(t, []string{"Alice"}, meetings[0].Participants)
	assert.True(t, meetings[0].Start.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "(no title)", meetings[1].Title)

	// A second sync replaces rather than duplicates.
	_, appErr = svc.SyncUser(context.Background(), &dto.SyncRequest{User: "u1", From: "2024-01-15", To: "2024-01-20"})
	require.Nil(t, appErr)
	meetings, err = repo.GetMeetings(context.Background())
	require.NoError(t, err)
	assert.Len(t, meetings, 2)
}

func TestSyncUser_Errors(t *testing.T) {
	google := newFakeGoogle(t, map[string]entity.EventList{})
	repo := newRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  GoogleConfig
		req  dto.SyncRequest
		code errors.ErrorCode
	}{
		{"no credentials", GoogleConfig{}, dto.SyncRequest{User: "Alice", From: "2024-01-15", To: "2024-01-16"}, errors.ErrUnauthorized},
		{"bad from", google.config(), dto.SyncRequest{User: "Alice", From: "soon", To: "2024-01-16"}, errors.ErrInvalidInput},
		{"inverted", google.config(), dto.SyncRequest{User: "Alice", From: "2024-01-16", To: "2024-01-15"}, errors.ErrInvalidInput},
		{"unknown user", google.config(), dto.SyncRequest{User: "Zed", From: "2024-01-15", To: "2024-01-16"}, errors.ErrNotFound},
		{"api error", google.config(), dto.SyncRequest{User: "Alice", From: "2024-01-15", To: "2024-01-16"}, errors.ErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCalendarService(repo, tt.cfg, time.UTC)
			_, appErr := svc.SyncUser(ctx, &tt.req)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestGoogleEventSpan(t *testing.T) {
	_, _, ok := timed("x", "", "2024-01-15T10:00:00Z", "2024-01-15T10:00:00Z").Span()
	assert.False(t, ok)
	_, _, ok = timed("x", "", "not-a-time", "2024-01-15T10:00:00Z").Span()
	assert.False(t, ok)
	start, end, ok := timed("x", "", "2024-01-15T10:00:00Z", "2024-01-15T10:30:00Z").Span()
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, end.Sub(start))
}
