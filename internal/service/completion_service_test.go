package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/internal/repository/mocks"
	"github.com/limbo/coindo/internal/service"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runsIn makes unit of work call fn with store and report fn's error like a real transaction would
func runsIn(uow *mocks.MockUnitOfWork, store repository.RewardStore) {
	uow.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, repository.RewardStore) error) error {
			return fn(ctx, store)
		})
}

func TestComputeReward(t *testing.T) {
	testCases := []struct {
		Desc       string
		Base       int
		Multiplier float64
		Expected   int
	}{
		{Desc: "no category", Base: 5, Multiplier: 1.0, Expected: 5},
		{Desc: "double", Base: 5, Multiplier: 2.0, Expected: 10},
		{Desc: "half rounds up", Base: 5, Multiplier: 1.1, Expected: 6},
		{Desc: "below half rounds down", Base: 5, Multiplier: 1.05, Expected: 5},
		{Desc: "fraction", Base: 5, Multiplier: 0.5, Expected: 3},
		{Desc: "tiny multiplier", Base: 5, Multiplier: 0.01, Expected: 0},
		{Desc: "two and a half", Base: 5, Multiplier: 2.5, Expected: 13},
		{Desc: "largest multiplier", Base: 5, Multiplier: service.MaxDifficultyMultiplier, Expected: 5000},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			reward, err := service.ComputeReward(tc.Base, tc.Multiplier)
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, reward)
		})
	}

	overflowCases := []struct {
		Desc       string
		Multiplier float64
		Error      error
	}{
		{Desc: "reward above int4", Multiplier: 1e9, Error: errorvalues.ErrRewardOverflow},
		{Desc: "reward above int64", Multiplier: 1e19, Error: errorvalues.ErrRewardOverflow},
		{Desc: "huge multiplier", Multiplier: 1e300, Error: errorvalues.ErrRewardOverflow},
		{Desc: "infinite multiplier", Multiplier: math.Inf(1), Error: errorvalues.ErrInvalidMultiplier},
		{Desc: "NaN multiplier", Multiplier: math.NaN(), Error: errorvalues.ErrInvalidMultiplier},
		{Desc: "negative multiplier", Multiplier: -2, Error: errorvalues.ErrInvalidMultiplier},
	}
	for _, tc := range overflowCases {
		t.Run(tc.Desc, func(t *testing.T) {
			reward, err := service.ComputeReward(entity.DefaultBaseCoinValue, tc.Multiplier)
			assert.ErrorIs(t, err, tc.Error)
			assert.Zero(t, reward)
		})
	}
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	categoryID := uuid.New()
	newTodo := func(multiplier float64, withCategory bool) *entity.Todo {
		todo := &entity.Todo{
			ID:                   uuid.New(),
			UserID:               uid,
			Title:                "Write report",
			BaseCoinValue:        entity.DefaultBaseCoinValue,
			DifficultyMultiplier: multiplier,
		}
		if withCategory {
			todo.CategoryID = &categoryID
		}
		return todo
	}

	t.Run("category with multiplier 2.0 rewards 10", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uow := mocks.NewMockUnitOfWork(ctrl)
		store := mocks.NewMockRewardStore(ctrl)
		cs := service.NewCompletionService(uow, mocks.NewMockTransactionsRepositoryI(ctrl))
		todo := newTodo(2.0, true)

		runsIn(uow, store)
		gomock.InOrder(
			store.EXPECT().LockTodo(gomock.Any(), todo.ID).Return(todo, nil),
			store.EXPECT().MarkCompleted(gomock.Any(), todo.ID, gomock.Any()).Return(nil),
			store.EXPECT().AppendTransaction(gomock.Any(), &entity.CoinTransaction{
				UserID:        uid,
				Amount:        10,
				Kind:          entity.TransactionTaskCompletion,
				RelatedTodoID: &todo.ID,
			}).Return(nil),
			store.EXPECT().ApplyReward(gomock.Any(), uid, 10, gomock.Any()).
				Return(&entity.Balance{TotalCoins: 10, StreakCount: 1}, nil),
		)

		result, err := cs.Complete(ctx, uid, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, result.CoinsEarned)
		assert.Equal(t, 10, result.TotalCoins)
		assert.Equal(t, 1, result.StreakCount)
		assert.True(t, result.Todo.Completed)
		require.NotNil(t, result.Todo.CompletedAt)
		assert.WithinDuration(t, time.Now(), *result.Todo.CompletedAt, time.Minute)
	})
	t.Run("no category rewards base value", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uow := mocks.NewMockUnitOfWork(ctrl)
		store := mocks.NewMockRewardStore(ctrl)
		cs := service.NewCompletionService(uow, mocks.NewMockTransactionsRepositoryI(ctrl))
		todo := newTodo(1.0, false)

		runsIn(uow, store)
		store.EXPECT().LockTodo(gomock.Any(), todo.ID).Return(todo, nil)
		store.EXPECT().MarkCompleted(gomock.Any(), todo.ID, gomock.Any()).Return(nil)
		store.EXPECT().AppendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tx *entity.CoinTransaction) error {
			assert.Equal(t, 5, tx.Amount)
			return nil
		})
		store.EXPECT().ApplyReward(gomock.Any(), uid, 5, gomock.Any()).Return(&entity.Balance{TotalCoins: 5, StreakCount: 1}, nil)

		result, err := cs.Complete(ctx, uid, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, result.CoinsEarned)
	})
	t.Run("reward out of range leaves todo untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uow := mocks.NewMockUnitOfWork(ctrl)
		store := mocks.NewMockRewardStore(ctrl)
		cs := service.NewCompletionService(uow, mocks.NewMockTransactionsRepositoryI(ctrl))
		todo := newTodo(1e19, true)

		runsIn(uow, store)
		store.EXPECT().LockTodo(gomock.Any(), todo.ID).Return(todo, nil)
		store.EXPECT().MarkCompleted(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		store.EXPECT().AppendTransaction(gomock.Any(), gomock.Any()).Times(0)
		store.EXPECT().ApplyReward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		result, err := cs.Complete(ctx, uid, todo.ID)
		assert.ErrorIs(t, err, errorvalues.ErrRewardOverflow)
		assert.Nil(t, result)
	})
	t.Run("already completed earns nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uow := mocks.NewMockUnitOfWork(ctrl)
		store := mocks.NewMockRewardStore(ctrl)
		cs := service.NewCompletionService(uow, mocks.NewMockTransactionsRepositoryI(ctrl))
		todo := newTodo(2.0, true)
		completedAt := time.Now().Add(-time.Hour)
		todo.Completed = true
		todo.CompletedAt = &completedAt

		runsIn(uow, store)
		store.EXPECT().LockTodo(gomock.Any(), todo.ID).Return(todo, nil)
		store.EXPECT().GetBalance(gomock.Any(), uid).Return(&entity.Balance{TotalCoins: 10, StreakCount: 1}, nil)
		store.EXPECT().MarkCompleted(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		store.EXPECT().AppendTransaction(gomock.Any(), gomock.Any()).Times(0)
		store.EXPECT().ApplyReward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		result, err := cs.Complete(ctx, uid, todo.ID)
		require.NoError(t, err)
		assert.Zero(t, result.CoinsEarned)
		assert.Equal(t, 10, result.TotalCoins)
		assert.Equal(t, &completedAt, result.Todo.CompletedAt)
	})
	t.Run("foreign todo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uow := mocks.NewMockUnitOfWork(ctrl)
		store := mocks.NewMockRewardStore(ctrl)
		cs := service.NewCompletionService(uow, mocks.NewMockTransactionsRepositoryI(ctrl))
		todo := newTodo(1.0, false)

		runsIn(uow, store)
		store.EXPECT().LockTodo(gomock.Any(), todo.ID).Return(todo, nil)

		_, err := cs.Complete(ctx, uuid.New(), todo.ID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
	t.Run("missing todo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uow := mocks.NewMockUnitOfWork(ctrl)
		store := mocks.NewMockRewardStore(ctrl)
		cs := service.NewCompletionService(uow, mocks.NewMockTransactionsRepositoryI(ctrl))
		id := uuid.New()

		runsIn(uow, store)
		store.EXPECT().LockTodo(gomock.Any(), id).Return(nil, errorvalues.ErrTodoNotFound)

		_, err := cs.Complete(ctx, uid, id)
		assert.ErrorIs(t, err, errorvalues.ErrTodoNotFound)
	})
	t.Run("storage failure surfaces as internal error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uow := mocks.NewMockUnitOfWork(ctrl)
		store := mocks.NewMockRewardStore(ctrl)
		cs := service.NewCompletionService(uow, mocks.NewMockTransactionsRepositoryI(ctrl))
		todo := newTodo(2.0, true)

		runsIn(uow, store)
		store.EXPECT().LockTodo(gomock.Any(), todo.ID).Return(todo, nil)
		store.EXPECT().MarkCompleted(gomock.Any(), todo.ID, gomock.Any()).Return(nil)
		store.EXPECT().AppendTransaction(gomock.Any(), gomock.Any()).Return(nil)
		store.EXPECT().ApplyReward(gomock.Any(), uid, 10, gomock.Any()).Return(nil, errors.New("db error"))

		result, err := cs.Complete(ctx, uid, todo.ID)
		assert.EqualError(t, err, "completing todo error: db error")
		assert.Nil(t, result)
		assert.False(t, todo.Completed)
	})
}

func TestListTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	transactionsRepo := mocks.NewMockTransactionsRepositoryI(ctrl)
	cs := service.NewCompletionService(mocks.NewMockUnitOfWork(ctrl), transactionsRepo)
	uid := uuid.New()
	expected := []*entity.CoinTransaction{{ID: uuid.New(), UserID: uid, Amount: 10, Kind: entity.TransactionTaskCompletion}}
	t.Run("listed", func(t *testing.T) {
		transactionsRepo.EXPECT().GetByUserID(gomock.Any(), uid, 10, 20).Return(expected, nil)
		result, err := cs.ListTransactions(context.Background(), uid, service.PaginationOpts{Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Equal(t, expected, result)
	})
	t.Run("repository error", func(t *testing.T) {
		transactionsRepo.EXPECT().GetByUserID(gomock.Any(), uid, 10, 0).Return(nil, errors.New("db error"))
		_, err := cs.ListTransactions(context.Background(), uid, service.PaginationOpts{Limit: 10})
		assert.EqualError(t, err, "transactions repository error: db error")
	})
}
