package upload

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"terminal-terrace/guideline-wiki/internal/middleware"
	"terminal-terrace/guideline-wiki/internal/testutils"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_BodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutils.SetupTestDB(t)
	dir := t.TempDir()
	h := NewHandler(NewUploadService(db, Config{Dir: dir, URLPrefix: "/uploads", MaxSize: 1 << 10}))

	r := gin.New()
	r.POST("/api/upload", func(c *gin.Context) {
		middleware.SetCurrentUser(c, testutils.Admin())
		c.Next()
	}, h.Upload)

	send := func(size int) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		part, err := w.CreateFormFile("file", "scan.bin")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("x"), size))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	tests := []struct {
		name   string
		size   int
		status int
		code   response.ResponseCode
	}{
		{"请求体超过上限", 256 << 10, http.StatusBadRequest, response.InvalidParameter},
		{"文件超过上限但请求体未超", 4 << 10, http.StatusBadRequest, response.InvalidParameter},
		{"正常大小", 512, http.StatusOK, response.Success},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(tt.size)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			var resp struct {
				Code response.ResponseCode `json:"code"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
