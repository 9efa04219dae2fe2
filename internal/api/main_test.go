package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/limbo/coindo/internal/api"
	"github.com/limbo/coindo/internal/service"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var userID = uuid.New()

func withUser(r *http.Request, uid uuid.UUID) *http.Request {
	return r.WithContext(api.WithUser(r.Context(), uid, "token"))
}
