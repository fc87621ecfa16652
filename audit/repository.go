package audit

import (
	"context"
	"sync"
	"time"
)

type Repository interface {
	LogAccess(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceID string) ([]AuditLog, error)
}

// InMemoryRepository keeps a bounded, append-only trail in process
// memory. When the retention cap is reached the oldest records are
// dropped first. A durable backend plugs in behind the Repository
// interface.
type InMemoryRepository struct {
	mu        sync.RWMutex
	logs      []AuditLog
	retention int
}

// NewInMemoryRepository creates a repository keeping at most retention
// records; retention < 1 means unbounded.
func NewInMemoryRepository(retention int) *InMemoryRepository {
	return &InMemoryRepository{retention: retention}
}

func (r *InMemoryRepository) LogAccess(_ context.Context, log AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	if r.retention > 0 && len(r.logs) > r.retention {
		r.logs = r.logs[len(r.logs)-r.retention:]
	}
	return nil
}

func (r *InMemoryRepository) QueryLogs(_ context.Context, from, to time.Time, subjectID, resourceID string) ([]AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []AuditLog
	for _, l := range r.logs {
		if !from.IsZero() && l.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && l.Timestamp.After(to) {
			continue
		}
		if subjectID != "" && l.SubjectID != subjectID {
			continue
		}
		if resourceID != "" && l.ResourceID != resourceID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
