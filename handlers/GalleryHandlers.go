package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"partshub/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UploadGalleryImageHandler stores an image in the vendor's public gallery.
// @Summary Upload gallery image
// @Tags Gallery
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Param title formData string false "Image title"
// @Success 201 {object} models.GalleryImage
// @Failure 400 {object} models.ErrorResponse
// @Router /api/gallery [post]
func UploadGalleryImageHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
			return
		}

		storedName, err := UploadFileToDirectory(fileHeader, uploadDir(), 10<<20)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image", "details": err.Error()})
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		if title == "" {
			title = fileHeader.Filename
		}

		image := models.GalleryImage{
			VendorID:    vendor.ID,
			Title:       title,
			ImageURL:    "/api/get-file?file=" + storedName,
			StoragePath: storedName,
			IsActive:    true,
		}

		if err := gdb.Create(&image).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save gallery image", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, image)
	}
}

// GetGalleryHandler lists active gallery images, optionally for one vendor.
// @Summary List gallery images
// @Tags Gallery
// @Produce json
// @Param vendor_id query int false "Vendor ID"
// @Success 200 {array} models.GalleryImage
// @Router /api/gallery [get]
func GetGalleryHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := gdb.Where("is_active = ?", true)

		if vendorIDStr := c.Query("vendor_id"); vendorIDStr != "" {
			vendorID, err := strconv.Atoi(vendorIDStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor_id"})
				return
			}
			query = query.Where("vendor_id = ?", vendorID)
		}

		images := []models.GalleryImage{}
		if err := query.Order("created_at DESC").Find(&images).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gallery", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, images)
	}
}

// GetMyGalleryHandler lists the authenticated vendor's own images, including
// inactive ones.
// @Summary List my gallery images
// @Tags Gallery
// @Produce json
// @Success 200 {array} models.GalleryImage
// @Failure 401 {object} models.ErrorResponse
// @Router /api/my/gallery [get]
func GetMyGalleryHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		images := []models.GalleryImage{}
		if err := gdb.Where("vendor_id = ?", vendor.ID).Order("created_at DESC").Find(&images).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gallery"})
			return
		}

		c.JSON(http.StatusOK, images)
	}
}

// UpdateGalleryImageHandler renames or toggles one of the vendor's images.
// @Summary Update gallery image
// @Tags Gallery
// @Accept json
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} models.GalleryImage
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/gallery/{id} [put]
func UpdateGalleryImageHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID"})
			return
		}

		var req struct {
			Title    *string `json:"title"`
			IsActive *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		var image models.GalleryImage
		if err := gdb.First(&image, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Gallery image not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if image.VendorID != vendor.ID && strings.ToLower(vendor.Role) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own images"})
			return
		}

		updates := map[string]interface{}{}
		if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if len(updates) == 0 {
			c.JSON(http.StatusOK, image)
			return
		}

		if err := gdb.Model(&image).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gallery image"})
			return
		}

		c.JSON(http.StatusOK, image)
	}
}

// DeleteGalleryImageHandler removes one of the vendor's images.
// @Summary Delete gallery image
// @Tags Gallery
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/gallery/{id} [delete]
func DeleteGalleryImageHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID"})
			return
		}

		var image models.GalleryImage
		if err := gdb.First(&image, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Gallery image not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if image.VendorID != vendor.ID && strings.ToLower(vendor.Role) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own images"})
			return
		}

		if err := gdb.Delete(&image).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete gallery image"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Gallery image deleted"})
	}
}
