package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationMiddleware(), SessionMiddleware())
	r.GET("/open", func(c *gin.Context) {
		name, _ := utils.GetUsernameFromContext(c.Request.Context())
		c.String(http.StatusOK, name)
	})
	protected := r.Group("/", RequireSession())
	protected.GET("/me", func(c *gin.Context) {
		ctx := c.Request.Context()
		name, _ := utils.GetUsernameFromContext(ctx)
		id, _ := utils.GetUserIdFromContext(ctx)
		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		c.JSON(http.StatusOK, gin.H{"username": name, "id": id, "cid": cid})
	})
	protected.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestSessionMiddleware(t *testing.T) {
	r := sessionRouter()
	staffToken, err := utils.JwtGenerate(7, "ravi", "staff")
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header map[string]string
		status int
	}{
		{"anonymous open route", "/open", nil, http.StatusOK},
		{"anonymous protected route", "/me", nil, http.StatusUnauthorized},
		{"garbage token", "/open", map[string]string{"token": "abc"}, http.StatusUnauthorized},
		{"token header", "/me", map[string]string{"token": staffToken}, http.StatusOK},
		{"bearer header", "/me", map[string]string{"Authorization": "Bearer " + staffToken}, http.StatusOK},
		{"staff on admin route", "/admin", map[string]string{"token": staffToken}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestSessionMiddleware_FillsContext(t *testing.T) {
	r := sessionRouter()
	token, err := utils.JwtGenerate(7, "ravi", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("token", token)
	req.Header.Set(CorrelationHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"ravi","id":7,"cid":"req-42"}`, w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(CorrelationHeader))
}
