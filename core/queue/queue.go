package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/logger"

	"github.com/hibiken/asynq"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) opt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: c.Addr, Password: c.Password, DB: c.DB}
}

// ConflictScanPayload is enqueued after a meeting is created so participants
// can be warned about clashes it introduced.
type ConflictScanPayload struct {
	MeetingID    string    `json:"meeting_id"`
	Title        string    `json:"title"`
	Participants []string  `json:"participants"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

func NewConflictScanTask(p ConflictScanPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal conflict scan payload: %w", err)
	}
	return asynq.NewTask(constants.TaskConflictScan, payload,
		asynq.MaxRetry(constants.TaskMaxRetry),
		asynq.Queue(constants.QueueDefault),
		asynq.Timeout(constants.DefaultRequestTimeout),
	), nil
}

func ParseConflictScan(t *asynq.Task) (ConflictScanPayload, error) {
	var p ConflictScanPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal conflict scan payload: %w: %w", err, asynq.SkipRetry)
	}
	return p, nil
}

// Enqueuer is what services depend on; nil means background work is disabled.
type Enqueuer interface {
	EnqueueConflictScan(ctx context.Context, p ConflictScanPayload) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg RedisConfig) *Client {
	return &Client{client: asynq.NewClient(cfg.opt())}
}

func (c *Client) EnqueueConflictScan(ctx context.Context, p ConflictScanPayload) error {
	task, err := NewConflictScanTask(p)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error("Queue:EnqueueConflictScan:Error", "meeting_id", p.MeetingID, "error", err)
		return fmt.Errorf("enqueue %s: %w", constants.TaskConflictScan, err)
	}
	logger.Info("Queue:EnqueueConflictScan", "meeting_id", p.MeetingID, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NewServer builds the worker server; handlers are registered on the mux
// passed to Run.
func NewServer(cfg RedisConfig, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.NewServer(cfg.opt(), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{constants.QueueDefault: 1},
		Logger:      asynqLogger{},
	})
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { logger.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { logger.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { logger.Error(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...any) {
	logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
