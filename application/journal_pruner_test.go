package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spfs/test/mocks"
)

func TestJournalPruner_PruneOnce(t *testing.T) {
	repo := &mocks.MockOperationRepository{}
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	pruner := NewJournalPruner(repo, 24*time.Hour, time.Minute)
	pruner.now = func() time.Time { return now }

	repo.On("Prune", mock.Anything, now.Add(-24*time.Hour)).Return(int64(3), nil).Once()

	removed, err := pruner.PruneOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	repo.AssertExpectations(t)
}

func TestJournalPruner_PropagatesError(t *testing.T) {
	repo := &mocks.MockOperationRepository{}
	boom := errors.New("database is locked")
	repo.On("Prune", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), boom)

	_, err := NewJournalPruner(repo, time.Hour, time.Minute).PruneOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestJournalPruner_Disabled(t *testing.T) {
	repo := &mocks.MockOperationRepository{}

	tests := []struct {
		name   string
		pruner *JournalPruner
	}{
		{"zero retention", NewJournalPruner(repo, 0, time.Minute)},
		{"negative retention", NewJournalPruner(repo, -time.Hour, time.Minute)},
		{"no journal", NewJournalPruner(nil, time.Hour, time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.pruner.Enabled())

			removed, err := tt.pruner.PruneOnce(context.Background())
			assert.NoError(t, err)
			assert.Zero(t, removed)

			// returns immediately instead of blocking on the ticker
			tt.pruner.Run(context.Background())
		})
	}
	repo.AssertNotCalled(t, "Prune", mock.Anything, mock.Anything)
}

func TestJournalPruner_RunStopsWithContext(t *testing.T) {
	repo := &mocks.MockOperationRepository{}
	pruned := make(chan struct{}, 1)
	repo.On("Prune", mock.Anything, mock.Anything).Return(int64(0), nil).Run(func(mock.Arguments) {
		select {
		case pruned <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewJournalPruner(repo, time.Hour, time.Hour).Run(ctx)
		close(done)
	}()

	select {
	case <-pruned:
	case <-time.After(time.Second):
		t.Fatal("pruner did not prune on start")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop after cancellation")
	}
}
