package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/pkg/entity"
)

type TokensRepository struct {
	conn PgConnection
}

func NewTokensRepo(cfg DBConfig) *TokensRepository {
	return &TokensRepository{
		conn: NewPool(cfg),
	}
}

func NewTokensRepoWithConn(conn PgConnection) *TokensRepository {
	mustPing(conn, "tokensRepo")
	return &TokensRepository{
		conn: conn,
	}
}

func (tr *TokensRepository) Create(ctx context.Context, token *entity.AccessToken) error {
	_, err := tr.conn.Exec(ctx, `INSERT INTO access_tokens (token, user_id, expires_at) VALUES ($1, $2, $3);`,
		token.Token,
		token.UserID,
		token.ExpiresAt,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("saving token error: " + err.Error())
	}
	return nil
}

func (tr *TokensRepository) Get(ctx context.Context, token string) (*entity.AccessToken, error) {
	t := entity.AccessToken{Token: token}
	row := tr.conn.QueryRow(ctx, `SELECT user_id, expires_at FROM access_tokens WHERE token = $1;`, token)
	if err := row.Scan(&t.UserID, &t.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTokenRevoked
		}
		return nil, errors.New("getting token error: " + err.Error())
	}
	return &t, nil
}

func (tr *TokensRepository) Delete(ctx context.Context, token string) error {
	_, err := tr.conn.Exec(ctx, `DELETE FROM access_tokens WHERE token = $1;`, token)
	if err != nil {
		return errors.New("deleting token error: " + err.Error())
	}
	return nil
}

func (tr *TokensRepository) DeleteByUserID(ctx context.Context, uid uuid.UUID) error {
	_, err := tr.conn.Exec(ctx, `DELETE FROM access_tokens WHERE user_id = $1;`, uid)
	if err != nil {
		return errors.New("deleting user's tokens error: " + err.Error())
	}
	return nil
}
