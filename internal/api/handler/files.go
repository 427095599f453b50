package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tgfilebot/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadFile ingests one document into the library: the payload goes to
// the uploads directory under a fresh name, text-bearing formats get
// their content extracted for deep search, and the row becomes
// searchable immediately.
func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}
	fileType := models.DetectFileType(fileHeader.Filename)

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	if err := os.MkdirAll(h.Cfg.Uploads.Dir, 0o755); err != nil {
		h.Log.Error().Err(err).Msg("cannot create uploads directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}
	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	storedPath := filepath.Join(h.Cfg.Uploads.Dir, storedName)
	if err := os.WriteFile(storedPath, data, 0o644); err != nil {
		h.Log.Error().Err(err).Msg("cannot write upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	f := &models.TgFile{
		Title:               title,
		Description:         c.PostForm("description"),
		FileName:            fileHeader.Filename,
		FilePath:            storedPath,
		FileType:            fileType,
		Content:             h.Extractor.Extract(fileType, data),
		SizeInBytes:         fileHeader.Size,
		RequireSubscription: c.PostForm("require_subscription") != "false",
	}
	if tags := c.PostForm("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}

	if err := h.Store.CreateFile(f); err != nil {
		h.Log.Error().Err(err).Msg("cannot persist file row")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	c.JSON(http.StatusCreated, f)
}
