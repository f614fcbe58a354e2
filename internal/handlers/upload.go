package handlers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"collab-service/internal/models"
	"collab-service/internal/repositories"
	"collab-service/internal/storage"
)

// UploadHandler stores files through the blob-storage collaborator and
// records their metadata. Messages consume the returned URL opaquely.
type UploadHandler struct {
	files   repositories.FileRepository
	blobs   storage.BlobStore
	baseURL string
}

// NewUploadHandler builds an UploadHandler.
func NewUploadHandler(files repositories.FileRepository, blobs storage.BlobStore, baseURL string) *UploadHandler {
	return &UploadHandler{files: files, blobs: blobs, baseURL: baseURL}
}

// Create accepts a multipart file and returns its stored metadata.
func (h *UploadHandler) Create(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	workspaceID, ok := queryID(c, "workspace_id")
	if !ok {
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer src.Close()

	key := uuid.NewString() + filepath.Ext(header.Filename)
	size, err := h.blobs.Save(c.Request.Context(), key, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}

	file, err := h.files.Create(c.Request.Context(), models.File{
		Key:         key,
		Filename:    header.Filename,
		MimeType:    header.Header.Get("Content-Type"),
		Size:        size,
		URL:         h.baseURL + "/uploads/" + key,
		UploadedBy:  userIDFromContext(c),
		WorkspaceID: workspaceID,
	})
	if err != nil {
		// Metadata is authoritative; drop the orphaned blob.
		if cleanupErr := h.blobs.Delete(c.Request.Context(), key); cleanupErr != nil {
			log.Printf("orphaned blob cleanup failed key=%s: %v", key, cleanupErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record upload"})
		return
	}

	c.JSON(http.StatusCreated, file)
}

// Delete removes an upload; only the uploader may delete it.
func (h *UploadHandler) Delete(c *gin.Context) {
	fileID, ok := pathID(c, "file_id")
	if !ok {
		return
	}

	file, err := h.files.Get(c.Request.Context(), fileID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrFileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "file not found"})
		return
	}
	if file.UploadedBy != userIDFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the uploader may delete a file"})
		return
	}

	if err := h.blobs.Delete(c.Request.Context(), file.Key); err != nil {
		log.Printf("blob delete failed key=%s: %v", file.Key, err)
	}
	if err := h.files.Delete(c.Request.Context(), fileID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete file"})
		return
	}
	c.Status(http.StatusNoContent)
}
