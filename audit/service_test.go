package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-iam/aegis/engine/audit"
)

func TestService_LogAccess(t *testing.T) {
	ctx := context.Background()
	repo := audit.NewInMemoryRepository(0)
	svc := audit.NewService(repo)

	require.NoError(t, svc.LogAccess(ctx, audit.AuditLog{
		Event:     audit.EventAccessDenied,
		SubjectID: "u-1",
	}))

	logs, err := svc.QueryLogs(ctx, time.Time{}, time.Time{}, "u-1", "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.NotEmpty(t, logs[0].ID, "service assigns an id")
	assert.False(t, logs[0].Timestamp.IsZero(), "service assigns a timestamp")
}

func TestRepository_QueryFilters(t *testing.T) {
	ctx := context.Background()
	repo := audit.NewInMemoryRepository(0)

	base := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	records := []audit.AuditLog{
		{ID: "1", Timestamp: base, SubjectID: "u-1", ResourceID: "r-1", Event: audit.EventAccessGranted},
		{ID: "2", Timestamp: base.Add(time.Hour), SubjectID: "u-2", ResourceID: "r-1", Event: audit.EventAccessDenied},
		{ID: "3", Timestamp: base.Add(2 * time.Hour), SubjectID: "u-1", ResourceID: "r-2", Event: audit.EventLockout},
	}
	for _, rec := range records {
		require.NoError(t, repo.LogAccess(ctx, rec))
	}

	t.Run("BySubject", func(t *testing.T) {
		logs, err := repo.QueryLogs(ctx, time.Time{}, time.Time{}, "u-1", "")
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("ByResource", func(t *testing.T) {
		logs, err := repo.QueryLogs(ctx, time.Time{}, time.Time{}, "", "r-1")
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("ByWindow", func(t *testing.T) {
		logs, err := repo.QueryLogs(ctx, base.Add(30*time.Minute), base.Add(90*time.Minute), "", "")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "2", logs[0].ID)
	})

	t.Run("Combined", func(t *testing.T) {
		logs, err := repo.QueryLogs(ctx, time.Time{}, time.Time{}, "u-1", "r-2")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "3", logs[0].ID)
	})
}

func TestRepository_Retention(t *testing.T) {
	ctx := context.Background()
	repo := audit.NewInMemoryRepository(2)

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, repo.LogAccess(ctx, audit.AuditLog{ID: id, Timestamp: time.Now()}))
	}

	logs, err := repo.QueryLogs(ctx, time.Time{}, time.Time{}, "", "")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2", logs[0].ID)
	assert.Equal(t, "3", logs[1].ID)
}
