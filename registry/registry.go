package registry

import (
	"context"

	"github.com/aegis-iam/aegis/engine/model"
)

// SubjectRegistry is the engine's only view of subject storage. All
// mutation goes through UpdateSubject, which implementations must
// apply under per-subject exclusion: concurrent failed-attempt updates
// against one subject must still produce a monotonically increasing
// counter and a single lock transition.
type SubjectRegistry interface {
	GetSubject(ctx context.Context, id string) (*model.Subject, error)
	FindByUsername(ctx context.Context, username string) (*model.Subject, error)
	CreateSubject(ctx context.Context, subject model.Subject) error
	// UpdateSubject applies mutate to the stored subject as one atomic
	// read-modify-write. The callback receives a copy; returning an
	// error abandons the update.
	UpdateSubject(ctx context.Context, id string, mutate func(*model.Subject) error) (*model.Subject, error)
}

// ResourceRegistry is the engine's only view of resource storage.
// Share must be atomic relative to concurrent reads: a share either is
// or isn't visible to a given evaluation, never partially applied.
type ResourceRegistry interface {
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	CreateResource(ctx context.Context, resource model.Resource) error
	// Share grants the subject access to the resource's sharedWith set.
	// Sharing with a subject already present is a no-op, not an error.
	Share(ctx context.Context, resourceID, subjectID string) (*model.Resource, error)
}
