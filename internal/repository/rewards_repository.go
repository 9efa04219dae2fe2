package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/pkg/entity"
)

// RewardsUnitOfWork runs completion writes (todo state, ledger, balance) in one pgx transaction
type RewardsUnitOfWork struct {
	conn PgConnection
}

func NewRewardsUnitOfWork(cfg DBConfig) *RewardsUnitOfWork {
	return &RewardsUnitOfWork{
		conn: NewPool(cfg),
	}
}

func NewRewardsUnitOfWorkWithConn(conn PgConnection) *RewardsUnitOfWork {
	mustPing(conn, "rewardsUnitOfWork")
	return &RewardsUnitOfWork{
		conn: conn,
	}
}

func (uow *RewardsUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, store RewardStore) error) error {
	tx, err := uow.conn.Begin(ctx)
	if err != nil {
		return errors.New("beginning transaction error: " + err.Error())
	}
	if err = fn(ctx, &rewardStore{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, errors.New("rollback error: "+rbErr.Error()))
		}
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing transaction error: " + err.Error())
	}
	return nil
}

type rewardStore struct {
	tx pgx.Tx
}

func (rs *rewardStore) LockTodo(ctx context.Context, id uuid.UUID) (*entity.Todo, error) {
	row := rs.tx.QueryRow(ctx, todoSelect+` WHERE t.id = $1 FOR UPDATE OF t;`, id)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTodoNotFound
		}
		return nil, errors.New("locking todo error: " + err.Error())
	}
	return todo, nil
}

func (rs *rewardStore) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	ct, err := rs.tx.Exec(ctx, `UPDATE todos SET completed = TRUE, completed_at = $1, updated_at = $1 WHERE id = $2 AND completed = FALSE;`, at, id)
	if err != nil {
		return errors.New("marking todo completed error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTodoAlreadyCompleted
	}
	return nil
}

func (rs *rewardStore) AppendTransaction(ctx context.Context, coinTx *entity.CoinTransaction) error {
	row := rs.tx.QueryRow(ctx, `INSERT INTO coin_transactions (user_id, amount, kind, related_todo_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at;`,
		coinTx.UserID,
		coinTx.Amount,
		string(coinTx.Kind),
		coinTx.RelatedTodoID,
	)
	if err := row.Scan(&coinTx.ID, &coinTx.CreatedAt); err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("appending coin transaction error: " + err.Error())
	}
	return nil
}

func (rs *rewardStore) ApplyReward(ctx context.Context, uid uuid.UUID, amount int, day time.Time) (*entity.Balance, error) {
	var b entity.Balance
	// Streak goes on if user was active yesterday, stays the same on the same day, restarts otherwise
	row := rs.tx.QueryRow(ctx, `UPDATE users SET total_coins = total_coins + $1,
	streak_count = CASE WHEN last_active_date = $2::date THEN streak_count WHEN last_active_date = $2::date - 1 THEN streak_count + 1 ELSE 1 END,
	last_active_date = $2::date
	WHERE id = $3 RETURNING total_coins, streak_count;`, amount, day, uid)
	if err := row.Scan(&b.TotalCoins, &b.StreakCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("applying reward error: " + err.Error())
	}
	return &b, nil
}

func (rs *rewardStore) GetBalance(ctx context.Context, uid uuid.UUID) (*entity.Balance, error) {
	var b entity.Balance
	row := rs.tx.QueryRow(ctx, `SELECT total_coins, streak_count FROM users WHERE id = $1;`, uid)
	if err := row.Scan(&b.TotalCoins, &b.StreakCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("getting balance error: " + err.Error())
	}
	return &b, nil
}
