package registry

import (
	"context"
	"sync"

	aegis_errors "github.com/aegis-iam/aegis/engine/errors"
	"github.com/aegis-iam/aegis/engine/model"
)

// InMemorySubjectRegistry stores subjects in process memory. A single
// mutex serializes all updates, which satisfies the per-subject
// exclusion contract; reads return copies so callers never alias the
// stored value.
type InMemorySubjectRegistry struct {
	mu       sync.RWMutex
	subjects map[string]model.Subject
	byName   map[string]string
}

func NewInMemorySubjectRegistry() *InMemorySubjectRegistry {
	return &InMemorySubjectRegistry{
		subjects: make(map[string]model.Subject),
		byName:   make(map[string]string),
	}
}

func (r *InMemorySubjectRegistry) GetSubject(_ context.Context, id string) (*model.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subjects[id]
	if !ok {
		return nil, aegis_errors.ErrSubjectNotFound
	}
	out := s
	return &out, nil
}

func (r *InMemorySubjectRegistry) FindByUsername(_ context.Context, username string) (*model.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[username]
	if !ok {
		return nil, aegis_errors.ErrSubjectNotFound
	}
	out := r.subjects[id]
	return &out, nil
}

func (r *InMemorySubjectRegistry) CreateSubject(_ context.Context, subject model.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.subjects[subject.ID]; exists {
		return aegis_errors.ErrSubjectConflict
	}
	if _, exists := r.byName[subject.Username]; exists {
		return aegis_errors.ErrSubjectConflict
	}
	r.subjects[subject.ID] = subject
	r.byName[subject.Username] = subject.ID
	return nil
}

func (r *InMemorySubjectRegistry) UpdateSubject(_ context.Context, id string, mutate func(*model.Subject) error) (*model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subjects[id]
	if !ok {
		return nil, aegis_errors.ErrSubjectNotFound
	}
	if err := mutate(&s); err != nil {
		return nil, err
	}
	r.subjects[id] = s
	out := s
	return &out, nil
}

// InMemoryResourceRegistry stores resources in process memory. Share
// replaces the stored value in one step under the write lock, so a
// concurrent evaluation sees either the old or the new sharedWith set.
type InMemoryResourceRegistry struct {
	mu        sync.RWMutex
	resources map[string]model.Resource
}

func NewInMemoryResourceRegistry() *InMemoryResourceRegistry {
	return &InMemoryResourceRegistry{resources: make(map[string]model.Resource)}
}

func (r *InMemoryResourceRegistry) GetResource(_ context.Context, id string) (*model.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[id]
	if !ok {
		return nil, aegis_errors.ErrResourceNotFound
	}
	out := res
	out.SharedWith = append([]string(nil), res.SharedWith...)
	return &out, nil
}

func (r *InMemoryResourceRegistry) CreateResource(_ context.Context, resource model.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[resource.ID]; exists {
		return aegis_errors.ErrResourceConflict
	}
	resource.SharedWith = append([]string(nil), resource.SharedWith...)
	r.resources[resource.ID] = resource
	return nil
}

func (r *InMemoryResourceRegistry) Share(_ context.Context, resourceID, subjectID string) (*model.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[resourceID]
	if !ok {
		return nil, aegis_errors.ErrResourceNotFound
	}
	if !res.SharedWithSubject(subjectID) {
		res.SharedWith = append(append([]string(nil), res.SharedWith...), subjectID)
		r.resources[resourceID] = res
	}
	out := res
	out.SharedWith = append([]string(nil), res.SharedWith...)
	return &out, nil
}
