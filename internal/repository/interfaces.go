package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/coindo/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UsersRepositoryI interface {
	// Creates new user in database and fills its ID and CreatedAt
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by email. Used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates username and password hash
	Update(ctx context.Context, user *entity.User) error
}

type TokensRepositoryI interface {
	// Persists issued token
	Create(ctx context.Context, token *entity.AccessToken) error
	// Looks up persisted token. Missing token is ErrTokenRevoked
	Get(ctx context.Context, token string) (*entity.AccessToken, error)
	// Removes one token (logout)
	Delete(ctx context.Context, token string) error
	// Removes every token of the user (password change)
	DeleteByUserID(ctx context.Context, uid uuid.UUID) error
}

type CategoriesRepositoryI interface {
	// Creates category and fills its ID and CreatedAt
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	// Lists categories of the user, newest first
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Category, error)
	// Updates name and multiplier by ID
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TodoFilter struct {
	Completed  *bool
	CategoryID *uuid.UUID
}

type TodosRepositoryI interface {
	// Creates todo and fills its ID, CreatedAt and UpdatedAt
	Create(ctx context.Context, todo *entity.Todo) error
	// Returns todo joined with its category
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Todo, error)
	// Lists todos of the user ordered by due date, nulls last
	GetByUserID(ctx context.Context, uid uuid.UUID, filter TodoFilter) ([]*entity.Todo, error)
	// Updates title, description, due date and category by ID
	Update(ctx context.Context, todo *entity.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Counts todos referencing category
	CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int, error)
}

type TransactionsRepositoryI interface {
	// Lists ledger of the user, newest first
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.CoinTransaction, error)
}

// RewardStore is the set of writes the completion runs inside one transaction
type RewardStore interface {
	// Reads todo with its category and locks the todo row until the end of transaction
	LockTodo(ctx context.Context, id uuid.UUID) (*entity.Todo, error)
	// Flips todo into completed state. Already completed todo is ErrTodoAlreadyCompleted
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	// Appends ledger row and fills its ID and CreatedAt
	AppendTransaction(ctx context.Context, tx *entity.CoinTransaction) error
	// Adds amount to user's balance and moves streak for the given day
	ApplyReward(ctx context.Context, uid uuid.UUID, amount int, day time.Time) (*entity.Balance, error)
	// Returns current balance without changing it
	GetBalance(ctx context.Context, uid uuid.UUID) (*entity.Balance, error)
}

type UnitOfWork interface {
	// Runs fn in a single transaction. Commits if fn returns nil, rolls back otherwise
	Do(ctx context.Context, fn func(ctx context.Context, store RewardStore) error) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
