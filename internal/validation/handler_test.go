package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSchemaRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"))
	return r
}

func TestSchemaHandlers(t *testing.T) {
	r := setupSchemaRouter()

	tests := []struct {
		name   string
		path   string
		status int
		code   float64
	}{
		{name: "全部表单", path: "/api/schema", status: http.StatusOK, code: 100},
		{name: "分类表单", path: "/api/schema/category", status: http.StatusOK, code: 100},
		{name: "未知表单", path: "/api/schema/unknown", status: http.StatusNotFound, code: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestGetSchema_Fields(t *testing.T) {
	r := setupSchemaRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schema/tag", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data FormSchema `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tag", body.Data.Form)
	require.NotEmpty(t, body.Data.Fields)
	assert.Equal(t, "name", body.Data.Fields[0].Name)
	assert.True(t, body.Data.Fields[0].Required)
	assert.Equal(t, "50", body.Data.Fields[0].Rules["max"])
}
