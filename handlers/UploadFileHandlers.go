package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// ServeFile godoc
// @Summary      Serve file
// @Description  Serve a file by name from query param ?file=filename
// @Tags         upload
// @Produce      application/octet-stream
// @Param        file  query     string  true  "File name (path relative to storage)"
// @Success      200   {file}   file    "File content"
// @Failure      400   {object}  object
// @Failure      403   {object}  object
// @Failure      404   {object}  object
// @Router       /api/get-file [get]
func ServeFile(c *gin.Context) {
	fileName := c.Query("file")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file parameter is required"})
		return
	}

	// Secure the file path to prevent directory traversal attacks
	cleanFileName := filepath.Clean(fileName)
	if cleanFileName != fileName || strings.Contains(cleanFileName, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file path"})
		return
	}

	absoluteDir, err := filepath.Abs(uploadDir())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	filePath := filepath.Join(absoluteDir, cleanFileName)
	if !strings.HasPrefix(filePath, absoluteDir+string(os.PathSeparator)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	file, err := os.Open(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	contentType := http.DetectContentType(buffer[:n])
	c.Writer.Header().Set("Content-Type", contentType)
	c.File(filePath)
}

// UploadFile godoc
// @Summary      Upload file
// @Description  Upload a file (multipart form, field name: file)
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true  "File to upload"
// @Success      200   {object}  object  "message, file name, etc."
// @Failure      400   {object}  object
// @Router       /api/upload [post]
func UploadFile(c *gin.Context) {
	file, handler, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving the file"})
		return
	}
	defer file.Close()

	filename := filepath.Base(handler.Filename)
	if filename == "" || filename == "." {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file name"})
		return
	}

	dir := uploadDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create directory"})
		return
	}

	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String(), filename)
	dstPath := filepath.Join(dir, uniqueName)

	dst, err := os.Create(dstPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create the file", "details": err.Error()})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save the file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "File uploaded successfully",
		"file_name": uniqueName,
		"file_url":  "/api/get-file?file=" + uniqueName,
		"file_size": handler.Size,
		"file_type": handler.Header.Get("Content-Type"),
	})
}

// UploadFileToDirectory uploads a multipart file into uploadDir and returns
// the stored file name. Used by the payment-slip and gallery handlers.
func UploadFileToDirectory(file *multipart.FileHeader, dir string, maxSize int64) (string, error) {
	filename := filepath.Base(file.Filename)
	if filename == "" || filename == "." {
		return "", fmt.Errorf("invalid file name")
	}

	if maxSize > 0 && file.Size > maxSize {
		return "", fmt.Errorf("file size exceeds the allowed limit")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("unable to create directory %s: %w", dir, err)
	}

	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String(), filename)
	dstPath := filepath.Join(dir, uniqueName)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("unable to create the file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("unable to save the file: %w", err)
	}

	return uniqueName, nil
}

// FileExists checks if a file exists at the given path
func FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}
