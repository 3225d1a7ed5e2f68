package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"e-approval/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct {
	lastReq domain.EnforceRequest
}

func (m *mockService) Enforce(req domain.EnforceRequest) (bool, error) {
	m.lastReq = req
	return req.Role == "approver" && req.Resource == "request" && req.Action == "approve", nil
}

func (m *mockService) Permissions(role string) []domain.PermissionResponse {
	return []domain.PermissionResponse{{Resource: "request", Action: "read"}}
}

func newRouter(handler *Handler, role string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("role", role)
		c.Next()
	})
	router.POST("/rbac/enforce", handler.Enforce)
	router.GET("/rbac/me/permissions", handler.MyPermissions)
	return router
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("uses caller role", func(t *testing.T) {
		service := &mockService{}
		router := newRouter(NewHandler(service), "approver")

		jsonBody, _ := json.Marshal(map[string]string{"resource": "request", "action": "approve"})
		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"allowed":true`)
		assert.Equal(t, "user-1", service.lastReq.Subject)
		assert.Equal(t, "approver", service.lastReq.Role)
	})

	t.Run("missing action", func(t *testing.T) {
		router := newRouter(NewHandler(&mockService{}), "staff")

		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"resource":"request"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestHandler_MyPermissions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newRouter(NewHandler(&mockService{}), "staff")
	req, _ := http.NewRequest(http.MethodGet, "/rbac/me/permissions", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"read"`)
}
