package service

import (
	"context"
	"fmt"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/metrics"
	"smart-schedule/core/queue"
	meetingDto "smart-schedule/modules/meeting/dto"
	"smart-schedule/modules/meeting/entity"
	"smart-schedule/modules/notification/dto"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ConflictDetector is the part of the meeting service the alert handler needs.
type ConflictDetector interface {
	DetectConflicts(ctx context.Context, req *meetingDto.DetectConflictsRequest) (*meetingDto.ConflictReport, *errors.AppError)
}

// ConflictAlertHandler processes conflict scan tasks: every known participant
// of the new meeting whose schedule is no longer clean gets a notification.
type ConflictAlertHandler struct {
	detector      ConflictDetector
	notifications NotificationServiceInterface
	metrics       *metrics.Metrics
}

func NewConflictAlertHandler(detector ConflictDetector, notifications NotificationServiceInterface, m *metrics.Metrics) *ConflictAlertHandler {
	return &ConflictAlertHandler{detector: detector, notifications: notifications, metrics: m}
}

func (h *ConflictAlertHandler) ProcessTask(ctx context.Context, t *asynq.Task) (err error) {
	defer func() { h.metrics.ObserveTask(t.Type(), err != nil) }()

	p, err := queue.ParseConflictScan(t)
	if err != nil {
		logger.Error("ConflictAlertHandler:ProcessTask:BadPayload", "error", err)
		return err
	}

	window := p.Start.Format(time.RFC3339) + " to " + p.End.Format(time.RFC3339)

	// Detect for everyone first so a detector failure leaves nothing written.
	var alerts []*meetingDto.ConflictReport
	seen := make(map[string]bool, len(p.Participants))
	for _, participant := range p.Participants {
		report, appErr := h.detector.DetectConflicts(ctx, &meetingDto.DetectConflictsRequest{User: participant, TimeRange: window})
		if appErr != nil {
			if appErr.Code == errors.ErrNotFound {
				logger.Debug("ConflictAlertHandler:ProcessTask:UnknownUser", "participant", participant)
				continue
			}
			return appErr
		}
		if seen[report.User.ID] {
			continue
		}
		seen[report.User.ID] = true
		if report.ConflictsFound == 0 || report.Insights.Status == entity.StatusGood {
			continue
		}
		alerts = append(alerts, report)
	}

	// Ids are derived from (meeting, user), so a retry after a partial
	// write only inserts what is missing.
	for _, report := range alerts {
		_, appErr := h.notifications.Create(ctx, &dto.CreateNotificationRequest{
			ID:      AlertID(p.MeetingID, report.User.ID),
			UserID:  report.User.ID,
			Title:   fmt.Sprintf("Scheduling conflict: %s", p.Title),
			Message: fmt.Sprintf("%d conflict(s) found around '%s' (%s)", report.ConflictsFound, p.Title, window),
			Type:    constants.NotificationConflict,
			Data: map[string]any{
				"meeting_id":      p.MeetingID,
				"status":          string(report.Insights.Status),
				"conflicts_found": report.ConflictsFound,
			},
		})
		if appErr != nil {
			return appErr
		}
		logger.Info("ConflictAlertHandler:ProcessTask:Notified",
			"meeting_id", p.MeetingID,
			"user_id", report.User.ID,
			"conflicts", report.ConflictsFound,
		)
	}
	return nil
}

// AlertID is the notification id for the conflict alert of meetingID sent to
// userID.
func AlertID(meetingID, userID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("smart-schedule:"+constants.NotificationConflict+":"+meetingID+":"+userID)).String()
}
