package errorvalues

import "errors"

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrValidation       = errors.New("validation error")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked or expired")

	ErrWrongOwner    = errors.New("resource belongs to another user")
	ErrOwnerNotFound = errors.New("owner of resource doesn't exist")

	ErrCategoryExists    = errors.New("category with such name already exists")
	ErrCategoryNotFound  = errors.New("category doesn't exist")
	ErrCategoryHasTodos  = errors.New("category has associated todos")
	ErrInvalidMultiplier = errors.New("difficulty multiplier must be greater than 0 and not greater than 1000")
	ErrInvalidCategory   = errors.New("invalid category or category does not belong to current user")

	ErrTodoNotFound         = errors.New("todo doesn't exist")
	ErrTodoAlreadyCompleted = errors.New("todo is already completed")
	ErrRewardOverflow       = errors.New("reward exceeds coin balance limits")
)
