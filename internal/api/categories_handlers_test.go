package api_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/limbo/coindo/internal/api"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/service"
	"github.com/limbo/coindo/internal/service/mocks"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCategoriesServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CategoriesService: cService,
	})
	multiplier := 1.5
	body, err := sonic.ConfigDefault.Marshal(api.CreateCategoryRequest{
		Name:                 "Work",
		DifficultyMultiplier: &multiplier,
	})
	require.NoError(t, err)
	req := &service.CreateCategoryRequest{Name: "Work", DifficultyMultiplier: &multiplier}

	testCases := []struct {
		Desc         string
		ExpectedCode int
		MockPrepFunc func()
		Body         []byte
	}{
		{
			Desc:         "created",
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				cService.EXPECT().Create(gomock.Any(), userID, req).Return(&entity.Category{
					ID:                   uuid.New(),
					UserID:               userID,
					Name:                 "Work",
					DifficultyMultiplier: multiplier,
					CreatedAt:            time.Now(),
				}, nil)
			},
			Body: body,
		},
		{
			Desc:         "duplicate name",
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				cService.EXPECT().Create(gomock.Any(), userID, req).Return(nil, errorvalues.ErrCategoryExists)
			},
			Body: body,
		},
		{
			Desc:         "invalid multiplier",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				cService.EXPECT().Create(gomock.Any(), userID, req).Return(nil, errorvalues.ErrInvalidMultiplier)
			},
			Body: body,
		},
		{
			Desc:         "service error",
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				cService.EXPECT().Create(gomock.Any(), userID, req).Return(nil, errors.New("mocked error"))
			},
			Body: body,
		},
		{
			Desc:         "invalid body",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         []byte(`{"category_name":`),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(tc.Body)), userID)
			serv.CreateCategory(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}

func TestGetCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCategoriesServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CategoriesService: cService,
	})
	t.Run("listed", func(t *testing.T) {
		cService.EXPECT().List(gomock.Any(), userID).Return([]*entity.Category{
			{ID: uuid.New(), UserID: userID, Name: "Work", DifficultyMultiplier: 2},
			{ID: uuid.New(), UserID: userID, Name: "Home", DifficultyMultiplier: 1},
		}, nil)
		rr := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil), userID)
		serv.GetCategories(rr, r)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetCategoriesResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Len(t, resp.Categories, 2)
		assert.Equal(t, "Work", resp.Categories[0].Name)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
		serv.GetCategories(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestCategoryByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCategoriesServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CategoriesService: cService,
	})
	categoryID := uuid.New()
	newName := "Chores"

	testCases := []struct {
		Desc         string
		Method       string
		PathID       string
		Body         []byte
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "get",
			Method:       http.MethodGet,
			PathID:       categoryID.String(),
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().Get(gomock.Any(), userID, categoryID).Return(&entity.Category{ID: categoryID, UserID: userID}, nil)
			},
		},
		{
			Desc:         "get foreign",
			Method:       http.MethodGet,
			PathID:       categoryID.String(),
			ExpectedCode: http.StatusForbidden,
			MockPrepFunc: func() {
				cService.EXPECT().Get(gomock.Any(), userID, categoryID).Return(nil, errorvalues.ErrWrongOwner)
			},
		},
		{
			Desc:         "get unexisting",
			Method:       http.MethodGet,
			PathID:       categoryID.String(),
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				cService.EXPECT().Get(gomock.Any(), userID, categoryID).Return(nil, errorvalues.ErrCategoryNotFound)
			},
		},
		{
			Desc:         "get with invalid id",
			Method:       http.MethodGet,
			PathID:       "not-uuid",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
		{
			Desc:         "update",
			Method:       http.MethodPut,
			PathID:       categoryID.String(),
			Body:         []byte(`{"category_name":"Chores"}`),
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().Update(gomock.Any(), userID, categoryID, &service.UpdateCategoryRequest{Name: &newName}).
					Return(&entity.Category{ID: categoryID, UserID: userID, Name: newName, DifficultyMultiplier: 1}, nil)
			},
		},
		{
			Desc:         "update to taken name",
			Method:       http.MethodPut,
			PathID:       categoryID.String(),
			Body:         []byte(`{"category_name":"Chores"}`),
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				cService.EXPECT().Update(gomock.Any(), userID, categoryID, &service.UpdateCategoryRequest{Name: &newName}).
					Return(nil, errorvalues.ErrCategoryExists)
			},
		},
		{
			Desc:         "update with invalid body",
			Method:       http.MethodPut,
			PathID:       categoryID.String(),
			Body:         []byte(`{`),
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
		{
			Desc:         "delete",
			Method:       http.MethodDelete,
			PathID:       categoryID.String(),
			ExpectedCode: http.StatusNoContent,
			MockPrepFunc: func() {
				cService.EXPECT().Delete(gomock.Any(), userID, categoryID).Return(nil)
			},
		},
		{
			Desc:         "delete with todos",
			Method:       http.MethodDelete,
			PathID:       categoryID.String(),
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				cService.EXPECT().Delete(gomock.Any(), userID, categoryID).Return(errorvalues.ErrCategoryHasTodos)
			},
		},
		{
			Desc:         "delete foreign",
			Method:       http.MethodDelete,
			PathID:       categoryID.String(),
			ExpectedCode: http.StatusForbidden,
			MockPrepFunc: func() {
				cService.EXPECT().Delete(gomock.Any(), userID, categoryID).Return(errorvalues.ErrWrongOwner)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := withUser(httptest.NewRequest(tc.Method, "/api/v1/categories/"+tc.PathID, bytes.NewReader(tc.Body)), userID)
			r.SetPathValue("id", tc.PathID)
			switch tc.Method {
			case http.MethodGet:
				serv.GetCategory(rr, r)
			case http.MethodPut:
				serv.UpdateCategory(rr, r)
			case http.MethodDelete:
				serv.DeleteCategory(rr, r)
			}
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}
