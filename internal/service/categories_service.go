package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/pkg/entity"
)

type CategoriesService struct {
	categoriesRepo repository.CategoriesRepositoryI
	todosRepo      repository.TodosRepositoryI
}

func NewCategoriesService(categoriesRepo repository.CategoriesRepositoryI, todosRepo repository.TodosRepositoryI) *CategoriesService {
	if categoriesRepo == nil || todosRepo == nil {
		log.Fatal("on categories service provided nil repos")
	}
	return &CategoriesService{
		categoriesRepo: categoriesRepo,
		todosRepo:      todosRepo,
	}
}

func (cs *CategoriesService) Create(ctx context.Context, uid uuid.UUID, req *CreateCategoryRequest) (*entity.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	multiplier := 1.0
	if req.DifficultyMultiplier != nil {
		multiplier = *req.DifficultyMultiplier
	}
	if err := validateMultiplier(multiplier); err != nil {
		return nil, err
	}
	category := entity.Category{
		UserID:               uid,
		Name:                 req.Name,
		DifficultyMultiplier: multiplier,
	}
	err := cs.categoriesRepo.Create(ctx, &category)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrCategoryExists):
			return nil, err
		}
		return nil, errors.New("categories repository error: " + err.Error())
	}
	return &category, nil
}

func (cs *CategoriesService) List(ctx context.Context, uid uuid.UUID) ([]*entity.Category, error) {
	categories, err := cs.categoriesRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("categories repository error: " + err.Error())
	}
	return categories, nil
}

func (cs *CategoriesService) Get(ctx context.Context, uid, id uuid.UUID) (*entity.Category, error) {
	category, err := cs.categoriesRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, errors.New("categories repository error: " + err.Error())
	}
	if err = authorize(category.UserID, uid); err != nil {
		return nil, err
	}
	return category, nil
}

func (cs *CategoriesService) Update(ctx context.Context, uid, id uuid.UUID, req *UpdateCategoryRequest) (*entity.Category, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.Join(errorvalues.ErrValidation, errors.New("category name can't be empty"))
		}
		req.Name = &name
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.DifficultyMultiplier != nil {
		if err := validateMultiplier(*req.DifficultyMultiplier); err != nil {
			return nil, err
		}
	}
	category, err := cs.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.DifficultyMultiplier != nil {
		category.DifficultyMultiplier = *req.DifficultyMultiplier
	}
	err = cs.categoriesRepo.Update(ctx, category)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryExists) || errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, errors.New("categories repository error: " + err.Error())
	}
	return category, nil
}

func (cs *CategoriesService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := cs.Get(ctx, uid, id); err != nil {
		return err
	}
	count, err := cs.todosRepo.CountByCategoryID(ctx, id)
	if err != nil {
		return errors.New("todos repository error: " + err.Error())
	}
	if count > 0 {
		return errorvalues.ErrCategoryHasTodos
	}
	err = cs.categoriesRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryHasTodos) || errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return err
		}
		return errors.New("categories repository error: " + err.Error())
	}
	return nil
}
