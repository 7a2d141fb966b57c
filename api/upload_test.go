package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler_Upload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	h := NewUploadHandler(dir)
	r := gin.New()
	r.POST("/api/upload", h.Upload)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "logo", "Logo.PNG", []byte("fake png")))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[UploadResponse](t, w)
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"))
	assert.Equal(t, "/uploads/"+resp.Filename, resp.URL)

	saved, err := os.ReadFile(filepath.Join(dir, resp.Filename))
	require.NoError(t, err)
	assert.Equal(t, "fake png", string(saved))
}

func TestUploadHandler_Upload_Rejects(t *testing.T) {
	h := NewUploadHandler(t.TempDir())
	r := gin.New()
	r.POST("/api/upload", h.Upload)

	tests := []struct {
		name     string
		field    string
		filename string
		message  string
	}{
		{"missing file", "", "", "请选择要上传的文件"},
		{"wrong field", "file", "a.png", "请选择要上传的文件"},
		{"not an image", "logo", "script.exe", "仅支持图片文件"},
		{"no extension", "logo", "logo", "仅支持图片文件"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, uploadRequest(t, tt.field, tt.filename, []byte("x")))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}
