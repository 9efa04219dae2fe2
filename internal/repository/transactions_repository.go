package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/limbo/coindo/pkg/entity"
)

type TransactionsRepository struct {
	conn PgConnection
}

func NewTransactionsRepo(cfg DBConfig) *TransactionsRepository {
	return &TransactionsRepository{
		conn: NewPool(cfg),
	}
}

func NewTransactionsRepoWithConn(conn PgConnection) *TransactionsRepository {
	mustPing(conn, "transactionsRepo")
	return &TransactionsRepository{
		conn: conn,
	}
}

func (tr *TransactionsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.CoinTransaction, error) {
	result := make([]*entity.CoinTransaction, 0)
	rows, err := tr.conn.Query(ctx, `SELECT id, user_id, amount, kind, related_todo_id, created_at
		FROM coin_transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting coin transactions by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		ct := entity.CoinTransaction{}
		var kind string
		err = rows.Scan(&ct.ID, &ct.UserID, &ct.Amount, &kind, &ct.RelatedTodoID, &ct.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling coin transaction error: " + err.Error())
		}
		ct.Kind = entity.TransactionKind(kind)
		result = append(result, &ct)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning coin transactions: " + err.Error())
	}
	return result, nil
}
