package goal_test

import (
	"context"
	"testing"

	"github.com/cofocus/focusd/internal/domain/goal"
	"github.com/cofocus/focusd/internal/repository"
	"github.com/cofocus/focusd/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSave_DropsBlankEntries(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.GoalRepository{}
	svc := goal.NewService(repo, nil)

	repo.On("ReplaceForUser", ctx, "s1", "alice", mock.MatchedBy(func(goals []goal.Goal) bool {
		return len(goals) == 2 && goals[0].Text == "finish draft" && goals[1].Text == "review notes"
	})).Return(nil)

	goals, err := svc.Save(ctx, "s1", "alice", []string{"finish draft", "  ", "", "review notes "})
	require.NoError(t, err)
	require.Len(t, goals, 2)
	repo.AssertExpectations(t)
}

func TestSave_AllBlankClearsGoals(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.GoalRepository{}
	svc := goal.NewService(repo, nil)

	repo.On("ReplaceForUser", ctx, "s1", "alice", mock.MatchedBy(func(goals []goal.Goal) bool {
		return len(goals) == 0
	})).Return(nil)

	goals, err := svc.Save(ctx, "s1", "alice", []string{"", "  "})
	require.NoError(t, err)
	require.Empty(t, goals)
}

func TestToggleCompletion_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.GoalRepository{}
	svc := goal.NewService(repo, nil)

	repo.On("Get", ctx, "g1").Return(&goal.Goal{ID: "g1", UserID: "alice"}, nil)

	_, err := svc.ToggleCompletion(ctx, "g1", "bob", true)
	require.ErrorIs(t, err, goal.ErrNotOwner)
	repo.AssertNotCalled(t, "SetCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleCompletion_UpdatesGoal(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.GoalRepository{}
	svc := goal.NewService(repo, nil)

	repo.On("Get", ctx, "g1").Return(&goal.Goal{ID: "g1", UserID: "alice"}, nil)
	repo.On("SetCompleted", ctx, "g1", true).Return(nil)

	g, err := svc.ToggleCompletion(ctx, "g1", "alice", true)
	require.NoError(t, err)
	require.True(t, g.Completed)
}

func TestToggleCompletion_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.GoalRepository{}
	svc := goal.NewService(repo, nil)

	repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	_, err := svc.ToggleCompletion(ctx, "missing", "alice", true)
	require.ErrorIs(t, err, goal.ErrGoalNotFound)
}
