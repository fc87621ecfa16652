// test/mock/registry.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aegis-iam/aegis/engine/model"
)

// MockSubjectRegistry is a mock implementation of registry.SubjectRegistry
type MockSubjectRegistry struct {
	mock.Mock
}

func (m *MockSubjectRegistry) GetSubject(ctx context.Context, id string) (*model.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subject), args.Error(1)
}

func (m *MockSubjectRegistry) FindByUsername(ctx context.Context, username string) (*model.Subject, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subject), args.Error(1)
}

func (m *MockSubjectRegistry) CreateSubject(ctx context.Context, subject model.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectRegistry) UpdateSubject(ctx context.Context, id string, mutate func(*model.Subject) error) (*model.Subject, error) {
	args := m.Called(ctx, id, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subject), args.Error(1)
}

// MockResourceRegistry is a mock implementation of registry.ResourceRegistry
type MockResourceRegistry struct {
	mock.Mock
}

func (m *MockResourceRegistry) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceRegistry) CreateResource(ctx context.Context, resource model.Resource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

func (m *MockResourceRegistry) Share(ctx context.Context, resourceID, subjectID string) (*model.Resource, error) {
	args := m.Called(ctx, resourceID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}
