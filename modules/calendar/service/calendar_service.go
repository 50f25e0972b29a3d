package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/utils"
	"smart-schedule/modules/calendar/dto"
	"smart-schedule/modules/calendar/entity"
	meetingDto "smart-schedule/modules/meeting/dto"
	meetingEntity "smart-schedule/modules/meeting/entity"
	"smart-schedule/modules/meeting/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// maxEventPages bounds pagination through a single calendar.
const maxEventPages = 20

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	BaseURL      string
	TokenURL     string
}

type CalendarServiceInterface interface {
	SyncUser(ctx context.Context, req *dto.SyncRequest) (*dto.SyncResponse, *errors.AppError)
}

// CalendarService imports Google Calendar events as meetings.
type CalendarService struct {
	repo repository.MeetingRepositoryInterface
	cfg  GoogleConfig
	loc  *time.Location
}

func NewCalendarService(repo repository.MeetingRepositoryInterface, cfg GoogleConfig, loc *time.Location) *CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/calendar/v3"
	}
	return &CalendarService{repo: repo, cfg: cfg, loc: loc}
}

func (s *CalendarService) oauthConfig() *oauth2.Config {
	endpoint := google.Endpoint
	if s.cfg.TokenURL != "" {
		endpoint.TokenURL = s.cfg.TokenURL
	}
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		Endpoint:     endpoint,
	}
}

// SyncUser pulls the user's events between From and To and upserts each timed,
// non-cancelled event as meeting g-<eventId>.
func (s *CalendarService) SyncUser(ctx context.Context, req *dto.SyncRequest) (*dto.SyncResponse, *errors.AppError) {
	if s.cfg.RefreshToken == "" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Google API credentials are not configured", nil)
	}

	from, err := utils.ParseTimestamp(req.From, s.loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid from: %s", req.From), err)
	}
	to, err := utils.ParseTimestamp(req.To, s.loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid to: %s", req.To), err)
	}
	if !to.After(from) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "to must be after from", nil)
	}

	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		logger.Error("CalendarService:SyncUser:GetUsers:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load users", err)
	}
	user, ok := meetingEntity.Snapshot{Users: users}.FindUser(req.User)
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("User '%s' not found", req.User), nil)
	}

	calendarID := user.Calendar
	if calendarID == "" {
		calendarID = dto.DefaultCalendarID
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	client := s.oauthConfig().Client(ctx, &oauth2.Token{RefreshToken: s.cfg.RefreshToken})
	events, appErr := s.fetchEvents(ctx, client, calendarID, from, to)
	if appErr != nil {
		return nil, appErr
	}

	resp := &dto.SyncResponse{
		Success:    true,
		User:       user.Name,
		CalendarID: calendarID,
		Meetings:   []meetingDto.MeetingResponse{},
	}
	for _, ev := range events {
		start, end, ok := ev.Span()
		if !ok {
			resp.Skipped++
			continue
		}
		title := strings.TrimSpace(ev.Summary)
		if title == "" {
			title = "(no title)"
		}
		meeting := meetingEntity.Meeting{
			ID:           "g-" + ev.ID,
			Title:        title,
			Participants: []string{user.Name},
			Start:        start.In(s.loc),
			End:          end.In(s.loc),
		}
		if err := s.repo.UpsertMeeting(ctx, &meeting); err != nil {
			logger.Error("CalendarService:SyncUser:UpsertMeeting:Error", "meeting_id", meeting.ID, "error", err)
			return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to store imported meeting", err)
		}
		resp.Imported++
		resp.Meetings = append(resp.Meetings, meetingDto.ToMeetingResponse(meeting))
	}

	logger.Info("CalendarService:SyncUser:Success",
		"user", user.ID,
		"calendar_id", calendarID,
		"imported", resp.Imported,
		"skipped", resp.Skipped,
	)
	return resp, nil
}

func (s *CalendarService) buildEventsURL(calendarID string, from, to time.Time, pageToken string) string {
	params := url.Values{}
	params.Add("singleEvents", "true")
	params.Add("orderBy", "startTime")
	params.Add("timeMin", from.Format(time.RFC3339))
	params.Add("timeMax", to.Format(time.RFC3339))
	if pageToken != "" {
		params.Add("pageToken", pageToken)
	}
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/calendars/" + url.PathEscape(calendarID) + "/events?" + params.Encode()
}

func (s *CalendarService) fetchEvents(ctx context.Context, client *http.Client, calendarID string, from, to time.Time) ([]entity.GoogleEvent, *errors.AppError) {
	var events []entity.GoogleEvent
	pageToken := ""
	for page := 0; page < maxEventPages; page++ {
		list, appErr := s.fetchEventPage(ctx, client, s.buildEventsURL(calendarID, from, to, pageToken))
		if appErr != nil {
			return nil, appErr
		}
		events = append(events, list.Items...)
		if list.NextPageToken == "" {
			return events, nil
		}
		pageToken = list.NextPageToken
	}
	logger.Warn("CalendarService:fetchEvents:PageLimit", "calendar_id", calendarID, "pages", maxEventPages)
	return events, nil
}

func (s *CalendarService) fetchEventPage(ctx context.Context, client *http.Client, apiURL string) (*entity.EventList, *errors.AppError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		logger.Error("CalendarService:fetchEventPage:NewRequest:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("CalendarService:fetchEventPage:DoRequest:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to fetch calendar events", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("CalendarService:fetchEventPage:ReadBody:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("CalendarService:fetchEventPage:APIError", "status", resp.StatusCode, "body", string(body))
		return nil, errors.NewAppError(errors.ErrInternalServer, fmt.Sprintf("Google Calendar API error: %d", resp.StatusCode), nil)
	}

	var list entity.EventList
	if err := json.Unmarshal(body, &list); err != nil {
		logger.Error("CalendarService:fetchEventPage:Unmarshal:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse response", err)
	}
	return &list, nil
}
