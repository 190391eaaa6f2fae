package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5 МБ

type FileHandler struct {
	dir string
}

func NewFileHandler(dir string) *FileHandler {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("failed to create upload directory %s: %v", dir, err)
	}
	return &FileHandler{dir: dir}
}

// Upload принимает изображение до 5 МБ и возвращает ссылку на него.
func (h *FileHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл не передан"})
		return
	}
	if file.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл пуст"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "размер файла превышает 5 МБ"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "допускаются только изображения"})
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.NewString() + ext

	if err := c.SaveUploadedFile(file, filepath.Join(h.dir, filename)); err != nil {
		log.Printf("failed to save uploaded file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сохранить файл"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":      "/api/files/" + filename,
		"filename": filename,
	})
}

func (h *FileHandler) Get(c *gin.Context) {
	// Base отсекает попытки выйти из каталога загрузок
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.dir, filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "файл не найден"})
		return
	}
	c.File(path)
}
