package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/pkg/entity"
)

func authorize(ownerID, userID uuid.UUID) error {
	if ownerID != userID {
		return errorvalues.ErrWrongOwner
	}
	return nil
}

// ownedCategory resolves category a todo is going to reference.
// Unknown and foreign categories are both ErrInvalidCategory
func ownedCategory(ctx context.Context, repo repository.CategoriesRepositoryI, categoryID, userID uuid.UUID) (*entity.Category, error) {
	category, err := repo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return nil, errorvalues.ErrInvalidCategory
		}
		return nil, errors.New("categories repository error: " + err.Error())
	}
	if authorize(category.UserID, userID) != nil {
		return nil, errorvalues.ErrInvalidCategory
	}
	return category, nil
}
