package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/metrics"
	"smart-schedule/core/queue"
	"smart-schedule/core/utils"
	"smart-schedule/modules/meeting/dto"
	"smart-schedule/modules/meeting/entity"
	"smart-schedule/modules/meeting/repository"
)

// Operation names, shared with the MCP tool names and metric labels.
const (
	OpFindOptimalSlots          = "find_optimal_slots"
	OpDetectSchedulingConflicts = "detect_scheduling_conflicts"
	OpCheckAvailability         = "check_availability"
	OpCreateMeeting             = "create_meeting"
	OpListUsers                 = "list_users"
	OpListMeetings              = "list_meetings"
)

// MeetingService loads a fresh snapshot for every call and runs the
// scheduling operations over it.
type MeetingService struct {
	repo    repository.MeetingRepositoryInterface
	loc     *time.Location
	queue   queue.Enqueuer
	metrics *metrics.Metrics
}

type MeetingServiceInterface interface {
	FindSlots(ctx context.Context, req *dto.FindSlotsRequest) (*dto.FindSlotsResponse, *errors.AppError)
	DetectConflicts(ctx context.Context, req *dto.DetectConflictsRequest) (*dto.ConflictReport, *errors.AppError)
	CheckAvailability(ctx context.Context, req *dto.CheckAvailabilityRequest) (*dto.AvailabilityResponse, *errors.AppError)
	CreateMeeting(ctx context.Context, req *dto.CreateMeetingRequest) (*dto.CreateMeetingResponse, *errors.AppError)
	ListUsers(ctx context.Context) (*dto.UserListResponse, *errors.AppError)
	ListMeetings(ctx context.Context, participant string) (*dto.MeetingListResponse, *errors.AppError)
}

type Option func(*MeetingService)

// WithLocation sets the zone for the slot grid and offset-less timestamps.
func WithLocation(loc *time.Location) Option {
	return func(s *MeetingService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithQueue enables conflict-scan tasks after a meeting is created.
func WithQueue(q queue.Enqueuer) Option {
	return func(s *MeetingService) { s.queue = q }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *MeetingService) { s.metrics = m }
}

func NewMeetingService(repo repository.MeetingRepositoryInterface, opts ...Option) *MeetingService {
	s := &MeetingService{repo: repo, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MeetingService) Location() *time.Location {
	return s.loc
}

// track records metrics for op and turns a panic into INTERNAL_SERVER_ERROR.
// Call it deferred with the named error result.
func (s *MeetingService) track(op, failPrefix string, started time.Time, appErr **errors.AppError) {
	if r := recover(); r != nil {
		logger.Error("MeetingService:"+op+":Panic", "panic", r, "stack", string(debug.Stack()))
		*appErr = errors.NewAppError(errors.ErrInternalServer, fmt.Sprintf("%s: %v", failPrefix, r), nil)
	}
	s.metrics.ObserveTool(op, *appErr != nil, time.Since(started))
}

func (s *MeetingService) snapshot(ctx context.Context, op string) (entity.Snapshot, *errors.AppError) {
	snap, err := repository.LoadSnapshot(ctx, s.repo)
	if err != nil {
		logger.Error("MeetingService:"+op+":LoadSnapshot:Error", "error", err)
		return entity.Snapshot{}, errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule data: "+err.Error(), err)
	}
	return snap, nil
}

func (s *MeetingService) FindSlots(ctx context.Context, req *dto.FindSlotsRequest) (resp *dto.FindSlotsResponse, appErr *errors.AppError) {
	defer s.track(OpFindOptimalSlots, "Error finding optimal slots", time.Now(), &appErr)

	snap, appErr := s.snapshot(ctx, "FindSlots")
	if appErr != nil {
		return nil, appErr
	}
	resp, appErr = FindOptimalSlots(snap, req, s.loc)
	if appErr != nil {
		logger.Warn("MeetingService:FindSlots:Rejected", "code", appErr.Code, "message", appErr.Message)
		return nil, appErr
	}

	logger.Info("MeetingService:FindSlots",
		"participants", len(resp.Participants),
		"duration_minutes", req.DurationMinutes,
		"date_range", req.DateRange,
		"recommendations", len(resp.Recommendations))
	return resp, nil
}

func (s *MeetingService) DetectConflicts(ctx context.Context, req *dto.DetectConflictsRequest) (resp *dto.ConflictReport, appErr *errors.AppError) {
	defer s.track(OpDetectSchedulingConflicts, "Error detecting conflicts", time.Now(), &appErr)

	snap, appErr := s.snapshot(ctx, "DetectConflicts")
	if appErr != nil {
		return nil, appErr
	}
	resp, appErr = DetectSchedulingConflicts(snap, req, s.loc)
	if appErr != nil {
		logger.Warn("MeetingService:DetectConflicts:Rejected", "user", req.User, "code", appErr.Code, "message", appErr.Message)
		return nil, appErr
	}

	logger.Info("MeetingService:DetectConflicts",
		"user_id", resp.User.ID,
		"meetings_in_range", resp.MeetingsInRange,
		"conflicts_found", resp.ConflictsFound,
		"status", resp.Insights.Status)
	return resp, nil
}

func (s *MeetingService) CheckAvailability(ctx context.Context, req *dto.CheckAvailabilityRequest) (resp *dto.AvailabilityResponse, appErr *errors.AppError) {
	defer s.track(OpCheckAvailability, "Error checking availability", time.Now(), &appErr)

	snap, appErr := s.snapshot(ctx, "CheckAvailability")
	if appErr != nil {
		return nil, appErr
	}
	user, ok := snap.FindUser(req.User)
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("User '%s' not found", req.User), nil)
	}
	start, err := utils.ParseTimestamp(req.Start, s.loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}
	end, err := utils.ParseTimestamp(req.End, s.loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}
	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end must be after start", nil)
	}

	availability := CheckAvailability(user, start, end, snap.MeetingsFor(user))
	availability.Kind = entity.ParticipantResolved
	return &dto.AvailabilityResponse{
		Success:      true,
		Availability: availability,
		Start:        start.Format(time.RFC3339),
		End:          end.Format(time.RFC3339),
	}, nil
}

func (s *MeetingService) CreateMeeting(ctx context.Context, req *dto.CreateMeetingRequest) (resp *dto.CreateMeetingResponse, appErr *errors.AppError) {
	defer s.track(OpCreateMeeting, "Error creating meeting", time.Now(), &appErr)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	participants := make([]string, 0, len(req.Participants))
	for _, p := range req.Participants {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}
	if len(participants) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "at least one participant is required", nil)
	}
	if appErr := checkDuration(req.DurationMinutes); appErr != nil {
		return nil, appErr
	}
	start, err := utils.ParseTimestamp(req.StartTime, s.loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}

	meeting := &entity.Meeting{
		ID:           utils.NewMeetingID(),
		Title:        title,
		Participants: participants,
		Start:        start,
		End:          start.Add(time.Duration(req.DurationMinutes) * time.Minute),
	}
	if err := meeting.Validate(); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}
	if err := s.repo.CreateMeeting(ctx, meeting); err != nil {
		logger.Error("MeetingService:CreateMeeting:Error", "meeting_id", meeting.ID, "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create meeting", err)
	}

	if s.queue != nil {
		err := s.queue.EnqueueConflictScan(ctx, queue.ConflictScanPayload{
			MeetingID:    meeting.ID,
			Title:        meeting.Title,
			Participants: meeting.Participants,
			Start:        meeting.Start,
			End:          meeting.End,
		})
		if err != nil {
			logger.Warn("MeetingService:CreateMeeting:Enqueue:Error", "meeting_id", meeting.ID, "error", err)
		}
	}

	out := dto.ToMeetingResponse(*meeting)
	logger.Info("MeetingService:CreateMeeting", "meeting_id", meeting.ID, "participants", len(participants))
	return &dto.CreateMeetingResponse{
		Success: true,
		Message: fmt.Sprintf("Meeting '%s' scheduled from %s to %s with participants %s",
			title, out.Start, out.End, strings.Join(participants, ", ")),
		Meeting: out,
	}, nil
}

func (s *MeetingService) ListUsers(ctx context.Context) (resp *dto.UserListResponse, appErr *errors.AppError) {
	defer s.track(OpListUsers, "Error listing users", time.Now(), &appErr)

	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load users", err)
	}
	items := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		items = append(items, dto.ToUserSummary(u))
	}
	return &dto.UserListResponse{Items: items, TotalItems: len(items)}, nil
}

// ListMeetings returns every meeting, or only those naming participant when it
// is set.
func (s *MeetingService) ListMeetings(ctx context.Context, participant string) (resp *dto.MeetingListResponse, appErr *errors.AppError) {
	defer s.track(OpListMeetings, "Error listing meetings", time.Now(), &appErr)

	snap, appErr := s.snapshot(ctx, "ListMeetings")
	if appErr != nil {
		return nil, appErr
	}

	meetings := snap.Meetings
	if participant = strings.TrimSpace(participant); participant != "" {
		user, ok := snap.FindUser(participant)
		if !ok {
			user = entity.User{ID: participant, Name: participant}
		}
		meetings = snap.MeetingsFor(user)
	}

	items := make([]dto.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, dto.ToMeetingResponse(m))
	}
	return &dto.MeetingListResponse{Items: items, TotalItems: len(items)}, nil
}
