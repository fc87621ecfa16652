package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	LogAccess(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceID string) ([]AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAccess(ctx context.Context, log AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	return s.repo.LogAccess(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceID string) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, from, to, subjectID, resourceID)
}
