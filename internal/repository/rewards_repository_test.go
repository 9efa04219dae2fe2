package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lockTodoQuery      = regexp.QuoteMeta(todoSelectQuery + ` WHERE t.id = $1 FOR UPDATE OF t;`)
	markCompletedQuery = regexp.QuoteMeta(`UPDATE todos SET completed = TRUE, completed_at = $1, updated_at = $1 WHERE id = $2 AND completed = FALSE;`)
	appendTxQuery      = regexp.QuoteMeta(`INSERT INTO coin_transactions (user_id, amount, kind, related_todo_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at;`)
	applyRewardQuery   = regexp.QuoteMeta(`UPDATE users SET total_coins = total_coins + $1,
	streak_count = CASE WHEN last_active_date = $2::date THEN streak_count WHEN last_active_date = $2::date - 1 THEN streak_count + 1 ELSE 1 END,
	last_active_date = $2::date
	WHERE id = $3 RETURNING total_coins, streak_count;`)
	getBalanceQuery = regexp.QuoteMeta(`SELECT total_coins, streak_count FROM users WHERE id = $1;`)
)

func TestRewardsUnitOfWork(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	todo := sampleTodo(uid)
	now := time.Now().UTC()

	t.Run("commits completion", func(t *testing.T) {
		conn, err := pgxmock.NewPool()
		require.NoError(t, err)
		uow := repository.NewRewardsUnitOfWorkWithConn(conn)
		txID := uuid.New()

		conn.ExpectBegin()
		conn.ExpectQuery(lockTodoQuery).WithArgs(todo.ID).WillReturnRows(addTodoRow(pgxmock.NewRows(todoColumns), todo))
		conn.ExpectExec(markCompletedQuery).WithArgs(now, todo.ID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		conn.ExpectQuery(appendTxQuery).
			WithArgs(uid, 10, "TASK_COMPLETION", &todo.ID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(txID, now))
		conn.ExpectQuery(applyRewardQuery).WithArgs(10, now, uid).
			WillReturnRows(pgxmock.NewRows([]string{"total_coins", "streak_count"}).AddRow(25, 3))
		conn.ExpectCommit()

		var balance *entity.Balance
		coinTx := &entity.CoinTransaction{}
		err = uow.Do(ctx, func(ctx context.Context, store repository.RewardStore) error {
			locked, err := store.LockTodo(ctx, todo.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, todo, locked)
			if err = store.MarkCompleted(ctx, todo.ID, now); err != nil {
				return err
			}
			coinTx.UserID = uid
			coinTx.Amount = 10
			coinTx.Kind = entity.TransactionTaskCompletion
			coinTx.RelatedTodoID = &todo.ID
			if err = store.AppendTransaction(ctx, coinTx); err != nil {
				return err
			}
			balance, err = store.ApplyReward(ctx, uid, 10, now)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, txID, coinTx.ID)
		assert.Equal(t, &entity.Balance{TotalCoins: 25, StreakCount: 3}, balance)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("rolls back on already completed todo", func(t *testing.T) {
		conn, err := pgxmock.NewPool()
		require.NoError(t, err)
		uow := repository.NewRewardsUnitOfWorkWithConn(conn)

		conn.ExpectBegin()
		conn.ExpectExec(markCompletedQuery).WithArgs(now, todo.ID).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		conn.ExpectRollback()

		err = uow.Do(ctx, func(ctx context.Context, store repository.RewardStore) error {
			return store.MarkCompleted(ctx, todo.ID, now)
		})
		assert.ErrorIs(t, err, errorvalues.ErrTodoAlreadyCompleted)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("rolls back on missing todo", func(t *testing.T) {
		conn, err := pgxmock.NewPool()
		require.NoError(t, err)
		uow := repository.NewRewardsUnitOfWorkWithConn(conn)

		conn.ExpectBegin()
		conn.ExpectQuery(lockTodoQuery).WithArgs(todo.ID).WillReturnError(pgx.ErrNoRows)
		conn.ExpectRollback()

		err = uow.Do(ctx, func(ctx context.Context, store repository.RewardStore) error {
			_, err := store.LockTodo(ctx, todo.ID)
			return err
		})
		assert.ErrorIs(t, err, errorvalues.ErrTodoNotFound)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("rolls back on balance error", func(t *testing.T) {
		conn, err := pgxmock.NewPool()
		require.NoError(t, err)
		uow := repository.NewRewardsUnitOfWorkWithConn(conn)

		conn.ExpectBegin()
		conn.ExpectQuery(applyRewardQuery).WithArgs(5, now, uid).WillReturnError(errors.New("db error"))
		conn.ExpectRollback()

		err = uow.Do(ctx, func(ctx context.Context, store repository.RewardStore) error {
			_, err := store.ApplyReward(ctx, uid, 5, now)
			return err
		})
		assert.EqualError(t, err, "applying reward error: db error")
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("begin error", func(t *testing.T) {
		conn, err := pgxmock.NewPool()
		require.NoError(t, err)
		uow := repository.NewRewardsUnitOfWorkWithConn(conn)

		conn.ExpectBegin().WillReturnError(errors.New("db error"))
		called := false
		err = uow.Do(ctx, func(ctx context.Context, store repository.RewardStore) error {
			called = true
			return nil
		})
		assert.EqualError(t, err, "beginning transaction error: db error")
		assert.False(t, called)
	})
	t.Run("commit error", func(t *testing.T) {
		conn, err := pgxmock.NewPool()
		require.NoError(t, err)
		uow := repository.NewRewardsUnitOfWorkWithConn(conn)

		conn.ExpectBegin()
		conn.ExpectQuery(getBalanceQuery).WithArgs(uid).
			WillReturnRows(pgxmock.NewRows([]string{"total_coins", "streak_count"}).AddRow(7, 1))
		conn.ExpectCommit().WillReturnError(errors.New("db error"))

		err = uow.Do(ctx, func(ctx context.Context, store repository.RewardStore) error {
			balance, err := store.GetBalance(ctx, uid)
			if err != nil {
				return err
			}
			assert.Equal(t, 7, balance.TotalCoins)
			return nil
		})
		assert.EqualError(t, err, "committing transaction error: db error")
	})
}
