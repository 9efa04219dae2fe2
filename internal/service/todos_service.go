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

type TodosService struct {
	todosRepo      repository.TodosRepositoryI
	categoriesRepo repository.CategoriesRepositoryI
}

func NewTodosService(todosRepo repository.TodosRepositoryI, categoriesRepo repository.CategoriesRepositoryI) *TodosService {
	if todosRepo == nil || categoriesRepo == nil {
		log.Fatal("on todos service provided nil repos")
	}
	return &TodosService{
		todosRepo:      todosRepo,
		categoriesRepo: categoriesRepo,
	}
}

func (ts *TodosService) Create(ctx context.Context, uid uuid.UUID, req *CreateTodoRequest) (*entity.Todo, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := ownedCategory(ctx, ts.categoriesRepo, *req.CategoryID, uid); err != nil {
			return nil, err
		}
	}
	todo := entity.Todo{
		UserID:        uid,
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		BaseCoinValue: entity.DefaultBaseCoinValue,
	}
	err := ts.todosRepo.Create(ctx, &todo)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrInvalidCategory):
			return nil, err
		}
		return nil, errors.New("todos repository error: " + err.Error())
	}
	return ts.get(ctx, todo.ID)
}

func (ts *TodosService) List(ctx context.Context, uid uuid.UUID, filter repository.TodoFilter) ([]*entity.Todo, error) {
	todos, err := ts.todosRepo.GetByUserID(ctx, uid, filter)
	if err != nil {
		return nil, errors.New("todos repository error: " + err.Error())
	}
	return todos, nil
}

func (ts *TodosService) Get(ctx context.Context, uid, id uuid.UUID) (*entity.Todo, error) {
	todo, err := ts.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = authorize(todo.UserID, uid); err != nil {
		return nil, err
	}
	return todo, nil
}

func (ts *TodosService) Update(ctx context.Context, uid, id uuid.UUID, req *UpdateTodoRequest) (*entity.Todo, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	todo, err := ts.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err = ownedCategory(ctx, ts.categoriesRepo, *req.CategoryID, uid); err != nil {
			return nil, err
		}
		todo.CategoryID = req.CategoryID
	}
	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = req.Description
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}
	err = ts.todosRepo.Update(ctx, todo)
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidCategory) || errors.Is(err, errorvalues.ErrTodoNotFound) {
			return nil, err
		}
		return nil, errors.New("todos repository error: " + err.Error())
	}
	return ts.get(ctx, id)
}

func (ts *TodosService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := ts.Get(ctx, uid, id); err != nil {
		return err
	}
	err := ts.todosRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTodoNotFound) {
			return err
		}
		return errors.New("todos repository error: " + err.Error())
	}
	return nil
}

func (ts *TodosService) get(ctx context.Context, id uuid.UUID) (*entity.Todo, error) {
	todo, err := ts.todosRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTodoNotFound) {
			return nil, err
		}
		return nil, errors.New("todos repository error: " + err.Error())
	}
	return todo, nil
}
