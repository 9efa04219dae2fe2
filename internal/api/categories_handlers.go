package api

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/limbo/coindo/internal/service"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/limbo/coindo/pkg/httputil"
)

type CreateCategoryRequest struct {
	Name                 string   `json:"category_name"`
	DifficultyMultiplier *float64 `json:"difficulty_multiplier"`
}

type UpdateCategoryRequest struct {
	Name                 *string  `json:"category_name"`
	DifficultyMultiplier *float64 `json:"difficulty_multiplier"`
}

type GetCategoriesResponse struct {
	UserID     string             `json:"user_id"`
	Categories []*entity.Category `json:"categories"`
}

// @Summary Create category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "category"
// @Success 201 {object} entity.Category
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 409 {object} httputil.ErrorResponse
// @Router /categories [post]
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create category error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateCategoryRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create category error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	category, err := s.categoriesService.Create(ctx, uid, &service.CreateCategoryRequest{
		Name:                 req.Name,
		DifficultyMultiplier: req.DifficultyMultiplier,
	})
	if err != nil {
		writeServiceError(w, logger, "creating category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, category)
	logger.Info("category created")
}

// @Summary List categories of current user
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} GetCategoriesResponse
// @Router /categories [get]
func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get categories error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	categories, err := s.categoriesService.List(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "getting categories", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetCategoriesResponse{
		UserID:     uid.String(),
		Categories: categories,
	})
	logger.Info("categories provided")
}

// @Summary Get category
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Param id path string true "category id"
// @Success 200 {object} entity.Category
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /categories/{id} [get]
func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get category error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("get category error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	category, err := s.categoriesService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "getting category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, category)
}

// @Summary Update category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "category id"
// @Param request body UpdateCategoryRequest true "fields to change"
// @Success 200 {object} entity.Category
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Failure 409 {object} httputil.ErrorResponse
// @Router /categories/{id} [put]
func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update category error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("update category error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category id in path value", nil)
		return
	}
	var req UpdateCategoryRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("update category error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	category, err := s.categoriesService.Update(ctx, uid, id, &service.UpdateCategoryRequest{
		Name:                 req.Name,
		DifficultyMultiplier: req.DifficultyMultiplier,
	})
	if err != nil {
		writeServiceError(w, logger, "updating category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, category)
	logger.Info("category updated")
}

// @Summary Delete category
// @Tags categories
// @Security BearerAuth
// @Param id path string true "category id"
// @Success 204
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /categories/{id} [delete]
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("category deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("category deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	if err = s.categoriesService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "deleting category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("category deleted")
}
