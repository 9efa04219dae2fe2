package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type RegisterRequest struct {
	Username string `validate:"required,alphanum_underscore,min=3,max=50"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

// Nil fields stay unchanged
type UpdateProfileRequest struct {
	Username *string `validate:"omitempty,alphanum_underscore,min=3,max=50"`
	Password *string `validate:"omitempty,min=8,max=72"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

type CreateCategoryRequest struct {
	Name string `validate:"required,max=100"`
	// Defaults to 1.0
	DifficultyMultiplier *float64
}

type UpdateCategoryRequest struct {
	Name                 *string `validate:"omitempty,max=100"`
	DifficultyMultiplier *float64
}

type CreateTodoRequest struct {
	Title       string  `validate:"required,max=255"`
	Description *string `validate:"omitempty,max=2000"`
	DueDate     *time.Time
	CategoryID  *uuid.UUID
}

type UpdateTodoRequest struct {
	Title       *string `validate:"omitempty,min=1,max=255"`
	Description *string `validate:"omitempty,max=2000"`
	DueDate     *time.Time
	CategoryID  *uuid.UUID
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type CompletionResult struct {
	Todo        *entity.Todo
	CoinsEarned int
	TotalCoins  int
	StreakCount int
}

// TokenIssuer signs bearer tokens for logged in users
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, time.Time, error)
}

type UserServiceI interface {
	// Validates user's data, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, issues and persists token
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Checks that token issued for uid is still persisted and not expired. Returns token's owner
	Authenticate(ctx context.Context, token string, uid uuid.UUID) (*entity.User, error)
	Logout(ctx context.Context, token string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Renames user and/or changes password. Password change revokes every token of the user
	UpdateProfile(ctx context.Context, uid uuid.UUID, req *UpdateProfileRequest) (*entity.User, error)
}

type CategoriesServiceI interface {
	Create(ctx context.Context, uid uuid.UUID, req *CreateCategoryRequest) (*entity.Category, error)
	List(ctx context.Context, uid uuid.UUID) ([]*entity.Category, error)
	Get(ctx context.Context, uid, id uuid.UUID) (*entity.Category, error)
	Update(ctx context.Context, uid, id uuid.UUID, req *UpdateCategoryRequest) (*entity.Category, error)
	// Fails with ErrCategoryHasTodos while any todo references category
	Delete(ctx context.Context, uid, id uuid.UUID) error
}

type TodosServiceI interface {
	Create(ctx context.Context, uid uuid.UUID, req *CreateTodoRequest) (*entity.Todo, error)
	List(ctx context.Context, uid uuid.UUID, filter repository.TodoFilter) ([]*entity.Todo, error)
	Get(ctx context.Context, uid, id uuid.UUID) (*entity.Todo, error)
	Update(ctx context.Context, uid, id uuid.UUID, req *UpdateTodoRequest) (*entity.Todo, error)
	Delete(ctx context.Context, uid, id uuid.UUID) error
}

type CompletionServiceI interface {
	// Marks todo completed and rewards its owner. Completing completed todo earns nothing
	Complete(ctx context.Context, uid, todoID uuid.UUID) (*CompletionResult, error)
	// Returns coin ledger of the user, newest first
	ListTransactions(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.CoinTransaction, error)
}
