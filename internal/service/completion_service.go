package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/pkg/entity"
)

type CompletionService struct {
	uow              repository.UnitOfWork
	transactionsRepo repository.TransactionsRepositoryI
}

func NewCompletionService(uow repository.UnitOfWork, transactionsRepo repository.TransactionsRepositoryI) *CompletionService {
	if uow == nil || transactionsRepo == nil {
		log.Fatal("on completion service provided nil dependencies")
	}
	return &CompletionService{
		uow:              uow,
		transactionsRepo: transactionsRepo,
	}
}

func (cs *CompletionService) Complete(ctx context.Context, uid, todoID uuid.UUID) (*CompletionResult, error) {
	var result *CompletionResult
	err := cs.uow.Do(ctx, func(ctx context.Context, store repository.RewardStore) error {
		// Row stays locked until commit, concurrent completion waits and sees completed todo
		todo, err := store.LockTodo(ctx, todoID)
		if err != nil {
			return err
		}
		if err = authorize(todo.UserID, uid); err != nil {
			return err
		}
		if todo.Completed {
			balance, err := store.GetBalance(ctx, uid)
			if err != nil {
				return err
			}
			result = &CompletionResult{
				Todo:        todo,
				TotalCoins:  balance.TotalCoins,
				StreakCount: balance.StreakCount,
			}
			return nil
		}
		reward, err := ComputeReward(todo.BaseCoinValue, todo.DifficultyMultiplier)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err = store.MarkCompleted(ctx, todo.ID, now); err != nil {
			return err
		}
		err = store.AppendTransaction(ctx, &entity.CoinTransaction{
			UserID:        uid,
			Amount:        reward,
			Kind:          entity.TransactionTaskCompletion,
			RelatedTodoID: &todo.ID,
		})
		if err != nil {
			return err
		}
		balance, err := store.ApplyReward(ctx, uid, reward, now)
		if err != nil {
			return err
		}
		todo.Completed = true
		todo.CompletedAt = &now
		todo.UpdatedAt = now
		result = &CompletionResult{
			Todo:        todo,
			CoinsEarned: reward,
			TotalCoins:  balance.TotalCoins,
			StreakCount: balance.StreakCount,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrTodoNotFound) || errors.Is(err, errorvalues.ErrWrongOwner) ||
			errors.Is(err, errorvalues.ErrInvalidMultiplier) || errors.Is(err, errorvalues.ErrRewardOverflow) {
			return nil, err
		}
		return nil, errors.New("completing todo error: " + err.Error())
	}
	return result, nil
}

func (cs *CompletionService) ListTransactions(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.CoinTransaction, error) {
	transactions, err := cs.transactionsRepo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("transactions repository error: " + err.Error())
	}
	return transactions, nil
}
