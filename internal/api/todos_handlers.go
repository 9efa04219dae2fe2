package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/internal/service"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/limbo/coindo/pkg/httputil"
)

type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// Omitted fields stay unchanged
type UpdateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

type GetTodosResponse struct {
	UserID string         `json:"user_id"`
	Todos  []*entity.Todo `json:"todos"`
}

type CompleteTodoResponse struct {
	Todo        *entity.Todo `json:"todo"`
	CoinsEarned int          `json:"coins_earned"`
	TotalCoins  int          `json:"total_coins"`
	StreakCount int          `json:"streak_count"`
}

// @Summary Create todo
// @Tags todos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateTodoRequest true "todo"
// @Success 201 {object} entity.Todo
// @Failure 400 {object} httputil.ErrorResponse
// @Router /todos [post]
func (s *Server) CreateTodo(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create todo error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateTodoRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create todo error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	todo, err := s.todosService.Create(ctx, uid, &service.CreateTodoRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeServiceError(w, logger, "creating todo", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, todo)
	logger.Info("todo created")
}

// @Summary List todos of current user
// @Tags todos
// @Security BearerAuth
// @Produce json
// @Param completed query bool false "completion filter"
// @Param category_id query string false "category filter"
// @Success 200 {object} GetTodosResponse
// @Failure 400 {object} httputil.ErrorResponse
// @Router /todos [get]
func (s *Server) GetTodos(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get todos error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var filter repository.TodoFilter
	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Error("get todos error: invalid completed filter")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid completed query param", nil)
			return
		}
		filter.Completed = &completed
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			logger.Error("get todos error: invalid category filter")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category_id query param", nil)
			return
		}
		filter.CategoryID = &categoryID
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	todos, err := s.todosService.List(ctx, uid, filter)
	if err != nil {
		writeServiceError(w, logger, "getting todos", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetTodosResponse{
		UserID: uid.String(),
		Todos:  todos,
	})
	logger.Info("todos provided")
}

// @Summary Get todo
// @Tags todos
// @Security BearerAuth
// @Produce json
// @Param id path string true "todo id"
// @Success 200 {object} entity.Todo
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /todos/{id} [get]
func (s *Server) GetTodo(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get todo error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("get todo error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid todo id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	todo, err := s.todosService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "getting todo", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, todo)
}

// @Summary Update todo
// @Tags todos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "todo id"
// @Param request body UpdateTodoRequest true "fields to change"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /todos/{id} [put]
func (s *Server) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update todo error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("update todo error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid todo id in path value", nil)
		return
	}
	var req UpdateTodoRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("update todo error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	todo, err := s.todosService.Update(ctx, uid, id, &service.UpdateTodoRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeServiceError(w, logger, "updating todo", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, todo)
	logger.Info("todo updated")
}

// @Summary Delete todo
// @Tags todos
// @Security BearerAuth
// @Param id path string true "todo id"
// @Success 204
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /todos/{id} [delete]
func (s *Server) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("todo deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("todo deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid todo id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	if err = s.todosService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "deleting todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("todo deleted")
}

// @Summary Complete todo and earn coins
// @Tags todos
// @Security BearerAuth
// @Produce json
// @Param id path string true "todo id"
// @Success 200 {object} CompleteTodoResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Failure 500 {object} httputil.ErrorResponse
// @Router /todos/{id}/complete [put]
func (s *Server) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("todo completion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("todo completion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid todo id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	result, err := s.completionService.Complete(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "completing todo", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, CompleteTodoResponse{
		Todo:        result.Todo,
		CoinsEarned: result.CoinsEarned,
		TotalCoins:  result.TotalCoins,
		StreakCount: result.StreakCount,
	})
	logger.Info("todo completed", "coins_earned", result.CoinsEarned)
}
