package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-facility-api/internal/models"
	"github.com/noah-isme/campus-facility-api/pkg/jobs"
)

type activitySink interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// AuditService writes activity entries through a background queue so a slow
// or failing audit insert never delays or fails the operation it describes.
type AuditService struct {
	repo   activitySink
	queue  *jobs.Queue
	logger *zap.Logger
}

// AuditQueueConfig tunes the background writer.
type AuditQueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
}

// NewAuditService constructs the audit recorder and its queue. Start must be
// called before entries are recorded.
func NewAuditService(repo activitySink, cfg AuditQueueConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.handle, jobs.Options{
		Workers: cfg.Workers,
		Buffer:  cfg.BufferSize,
		Retries: cfg.MaxRetries,
		Logger:  logger,
	})
	return s
}

// Start launches the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues one audit entry. Errors are logged and swallowed.
func (s *AuditService) Record(userID, actionType, description string) {
	entry := models.ActivityLog{
		UserID:     userID,
		ActionType: actionType,
		Action:     description,
	}
	job := jobs.Job{ID: uuid.NewString(), Kind: actionType, Payload: entry}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue audit entry", zap.String("action_type", actionType), zap.Error(err))
	}
}

// List returns recent activity entries for the admin view.
func (s *AuditService) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return s.repo.List(ctx, limit)
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.ActivityLog)
	if !ok {
		s.logger.Warn("dropping audit job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}
