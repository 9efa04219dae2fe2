package api_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang/mock/gomock"
	"github.com/limbo/coindo/internal/api"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/service"
	"github.com/limbo/coindo/internal/service/mocks"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	username = "test_name"
	email    = "test@example.com"
	password = "test_password"
)

func TestRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService: uService,
	})
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	req := &service.RegisterRequest{Username: username, Email: email, Password: password}

	testCases := []struct {
		Desc         string
		ExpectedCode int
		MockPrepFunc func()
		Body         []byte
	}{
		{
			Desc:         "registered",
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				uService.EXPECT().Register(gomock.Any(), req).Return(&entity.User{
					ID:       userID,
					Username: username,
					Email:    email,
				}, nil)
			},
			Body: body,
		},
		{
			Desc:         "email taken",
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				uService.EXPECT().Register(gomock.Any(), req).Return(nil, errorvalues.ErrEmailTaken)
			},
			Body: body,
		},
		{
			Desc:         "username taken",
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				uService.EXPECT().Register(gomock.Any(), req).Return(nil, errorvalues.ErrUsernameTaken)
			},
			Body: body,
		},
		{
			Desc:         "validation error",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				uService.EXPECT().Register(gomock.Any(), req).Return(nil, errors.Join(errorvalues.ErrValidation, errors.New("bad email")))
			},
			Body: body,
		},
		{
			Desc:         "service error",
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				uService.EXPECT().Register(gomock.Any(), req).Return(nil, errors.New("mocked error"))
			},
			Body: body,
		},
		{
			Desc:         "invalid body",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         []byte("{invalid"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(tc.Body))
			serv.Register(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}

	t.Run("response body", func(t *testing.T) {
		uService.EXPECT().Register(gomock.Any(), req).Return(&entity.User{
			ID:       userID,
			Username: username,
			Email:    email,
		}, nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
		serv.Register(rr, r)
		var resp api.UserResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, userID.String(), resp.UserID)
		assert.Equal(t, username, resp.Username)
		assert.Equal(t, 0, resp.TotalCoins)
	})
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService: uService,
	})
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	expiresAt := time.Now().Add(time.Hour)

	t.Run("logged in", func(t *testing.T) {
		uService.EXPECT().Login(gomock.Any(), email, password).Return(&service.LoginResult{
			Token:     "token",
			ExpiresAt: expiresAt,
			User:      &entity.User{ID: userID, Username: username, TotalCoins: 42},
		}, nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
		serv.Login(rr, r)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.LoginResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, "token", resp.Token)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, userID.String(), resp.UserID)
		assert.Equal(t, 42, resp.TotalCoins)
	})
	t.Run("wrong credentials", func(t *testing.T) {
		uService.EXPECT().Login(gomock.Any(), email, password).Return(nil, errorvalues.ErrWrongCredentials)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
		serv.Login(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		uService.EXPECT().Login(gomock.Any(), email, password).Return(nil, errors.New("mocked error"))
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
		serv.Login(rr, r)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(""))
		serv.Login(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService: uService,
	})
	newName := "new_name"

	t.Run("get profile", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(&entity.User{
			ID:          userID,
			Username:    username,
			Email:       email,
			TotalCoins:  10,
			StreakCount: 3,
		}, nil)
		rr := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil), userID)
		serv.GetProfile(rr, r)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.UserResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, 10, resp.TotalCoins)
		assert.Equal(t, 3, resp.StreakCount)
	})
	t.Run("get profile without auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		serv.GetProfile(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("get profile of deleted user", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(nil, errorvalues.ErrUserNotFound)
		rr := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil), userID)
		serv.GetProfile(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("update profile", func(t *testing.T) {
		uService.EXPECT().UpdateProfile(gomock.Any(), userID, &service.UpdateProfileRequest{Username: &newName}).
			Return(&entity.User{ID: userID, Username: newName}, nil)
		rr := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`{"username":"new_name"}`)), userID)
		serv.UpdateProfile(rr, r)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.UserResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, newName, resp.Username)
	})
	t.Run("update profile: username taken", func(t *testing.T) {
		uService.EXPECT().UpdateProfile(gomock.Any(), userID, &service.UpdateProfileRequest{Username: &newName}).
			Return(nil, errorvalues.ErrUsernameTaken)
		rr := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`{"username":"new_name"}`)), userID)
		serv.UpdateProfile(rr, r)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("update profile: invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`[`)), userID)
		serv.UpdateProfile(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestGetTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCompletionServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CompletionService: cService,
	})
	testCases := []struct {
		Desc         string
		Query        string
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "default pagination",
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().ListTransactions(gomock.Any(), userID, service.PaginationOpts{Limit: 10, Offset: 0}).
					Return([]*entity.CoinTransaction{{UserID: userID, Amount: 5, Kind: entity.TransactionTaskCompletion}}, nil)
			},
		},
		{
			Desc:         "second page",
			Query:        "?limit=5&page=2",
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().ListTransactions(gomock.Any(), userID, service.PaginationOpts{Limit: 5, Offset: 5}).
					Return([]*entity.CoinTransaction{}, nil)
			},
		},
		{
			Desc:         "limit out of range falls back to default",
			Query:        "?limit=500&page=-1",
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().ListTransactions(gomock.Any(), userID, service.PaginationOpts{Limit: 10, Offset: 0}).
					Return([]*entity.CoinTransaction{}, nil)
			},
		},
		{
			Desc:         "service error",
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				cService.EXPECT().ListTransactions(gomock.Any(), userID, service.PaginationOpts{Limit: 10, Offset: 0}).
					Return(nil, errors.New("mocked error"))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/me/transactions"+tc.Query, nil), userID)
			serv.GetTransactions(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}
