package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base coin value every todo gets on creation
const DefaultBaseCoinValue = 5

type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHash   string
	TotalCoins     int
	StreakCount    int
	LastActiveDate *time.Time
	CreatedAt      time.Time
}

type Category struct {
	ID                   uuid.UUID `json:"category_id"`
	UserID               uuid.UUID `json:"user_id"`
	Name                 string    `json:"category_name"`
	DifficultyMultiplier float64   `json:"difficulty_multiplier"`
	CreatedAt            time.Time `json:"created_at"`
}

type Todo struct {
	ID            uuid.UUID  `json:"todo_id"`
	UserID        uuid.UUID  `json:"user_id"`
	CategoryID    *uuid.UUID `json:"category_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	BaseCoinValue int        `json:"base_coin_value"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completion_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	// Filled from the attached category on reads
	CategoryName         *string `json:"category_name"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
}

type TransactionKind string

const (
	TransactionTaskCompletion TransactionKind = "TASK_COMPLETION"
	TransactionStreakBonus    TransactionKind = "STREAK_BONUS"
	TransactionRedeemReward   TransactionKind = "REDEEM_REWARD"
	TransactionPenalty        TransactionKind = "PENALTY"
)

type CoinTransaction struct {
	ID            uuid.UUID       `json:"transaction_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        int             `json:"amount"`
	Kind          TransactionKind `json:"transaction_type"`
	RelatedTodoID *uuid.UUID      `json:"related_todo_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type AccessToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// Balance is the user's coin state right after a ledger change
type Balance struct {
	TotalCoins  int
	StreakCount int
}
