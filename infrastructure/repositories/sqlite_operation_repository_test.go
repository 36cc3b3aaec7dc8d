package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spfs/database"
	"spfs/domain/contracts"
	"spfs/domain/journal"
	"spfs/logging"
)

func newTestRepository(t *testing.T) contracts.OperationRepository {
	t.Helper()
	logger := logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "discard"})
	db, err := database.New(database.Config{
		Path:          filepath.Join(t.TempDir(), "journal.db"),
		MaxOpenConns:  4,
		MaxIdleConns:  2,
		BusyTimeoutMs: 1000,
		EnableWAL:     true,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSqliteOperationRepository(db)
}

func TestSqliteOperationRepository_RecordAndRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := journal.NewOperation(journal.KindWrite, "/docs/a.txt", "", time.Now(), nil).WithBytes(0)
	second := journal.NewOperation(journal.KindCopy, "/docs/a.txt", "/docs/b.txt", time.Now(), errors.New("conflict"))

	id1, err := repo.Record(ctx, first)
	require.NoError(t, err)
	id2, err := repo.Record(ctx, second)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	ops, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, id2, ops[0].ID)
	assert.Equal(t, journal.KindCopy, ops[0].Kind)
	assert.Equal(t, "/docs/b.txt", ops[0].Target)
	assert.Equal(t, journal.StatusError, ops[0].Status)
	assert.Equal(t, "conflict", ops[0].Error)
	assert.Nil(t, ops[0].Bytes)

	assert.Equal(t, journal.StatusOK, ops[1].Status)
	require.NotNil(t, ops[1].Bytes)
	assert.Equal(t, int64(0), *ops[1].Bytes)
	assert.False(t, ops[1].CreatedAt.IsZero())
}

func TestSqliteOperationRepository_RecentLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Record(ctx, journal.NewOperation(journal.KindMkdir, "/dir", "", time.Now(), nil))
		require.NoError(t, err)
	}

	ops, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, ops, 3)

	_, err = repo.Recent(ctx, 0)
	assert.ErrorIs(t, err, contracts.ErrInvalidLimit)
}

func TestSqliteOperationRepository_ForPath(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	records := []journal.Operation{
		journal.NewOperation(journal.KindWrite, "/a.txt", "", time.Now(), nil),
		journal.NewOperation(journal.KindWrite, "/other.txt", "", time.Now(), nil),
		journal.NewOperation(journal.KindMove, "/other.txt", "/a.txt", time.Now(), nil),
	}
	for _, op := range records {
		_, err := repo.Record(ctx, op)
		require.NoError(t, err)
	}

	ops, err := repo.ForPath(ctx, "/a.txt", 10)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, journal.KindMove, ops[0].Kind)
	assert.Equal(t, journal.KindWrite, ops[1].Kind)

	empty, err := repo.ForPath(ctx, "/never.txt", 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSqliteOperationRepository_Prune(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := journal.NewOperation(journal.KindDelete, "/old.txt", "", now, nil)
	old.CreatedAt = now.Add(-48 * time.Hour)
	fresh := journal.NewOperation(journal.KindWrite, "/fresh.txt", "", now, nil)
	fresh.CreatedAt = now

	for _, op := range []journal.Operation{old, fresh} {
		_, err := repo.Record(ctx, op)
		require.NoError(t, err)
	}

	removed, err := repo.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	ops, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "/fresh.txt", ops[0].Path)

	removed, err = repo.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestErrQuery_Unwraps(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := ErrQuery{Op: "record", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "journal record: disk I/O error", err.Error())
}
