package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collab-service/internal/mocks"
	"collab-service/internal/models"
)

func setupUploadRouter() (*gin.Engine, *mocks.FileRepositoryMock, *mocks.BlobStoreMock) {
	gin.SetMode(gin.TestMode)
	files := new(mocks.FileRepositoryMock)
	blobs := new(mocks.BlobStoreMock)
	handler := NewUploadHandler(files, blobs, "http://localhost:8083")

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(5))
		c.Next()
	})
	r.POST("/uploads", handler.Create)
	r.DELETE("/uploads/:file_id", handler.Delete)
	return r, files, blobs
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadCreate(t *testing.T) {
	router, files, blobs := setupUploadRouter()

	blobs.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 4 && key[len(key)-4:] == ".png"
	}), mock.Anything).Return(int64(4), nil).Once()
	files.On("Create", mock.Anything, mock.MatchedBy(func(f models.File) bool {
		return f.Filename == "pic.png" && f.Size == 4 && f.UploadedBy == 5
	})).Return(models.File{ID: 1, Filename: "pic.png", Size: 4, UploadedBy: 5}, nil).Once()

	body, contentType := multipartBody(t, "pic.png", "data")
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.File
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)
	blobs.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestUploadCreateCleansOrphanedBlob(t *testing.T) {
	router, files, blobs := setupUploadRouter()

	blobs.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(int64(4), nil).Once()
	files.On("Create", mock.Anything, mock.Anything).Return(models.File{}, assert.AnError).Once()
	blobs.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	body, contentType := multipartBody(t, "pic.png", "data")
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	blobs.AssertExpectations(t)
}

func TestUploadDeleteOnlyUploader(t *testing.T) {
	router, files, _ := setupUploadRouter()

	files.On("Get", mock.Anything, int64(1)).
		Return(models.File{ID: 1, Key: "k.png", UploadedBy: 9}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/uploads/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadDelete(t *testing.T) {
	router, files, blobs := setupUploadRouter()

	files.On("Get", mock.Anything, int64(1)).
		Return(models.File{ID: 1, Key: "k.png", UploadedBy: 5}, nil).Once()
	blobs.On("Delete", mock.Anything, "k.png").Return(nil).Once()
	files.On("Delete", mock.Anything, int64(1)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/uploads/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	files.AssertExpectations(t)
	blobs.AssertExpectations(t)
}
