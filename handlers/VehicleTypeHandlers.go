package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"partshub/models"
	"partshub/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetVehicleTypes godoc
// @Summary      List vehicle types
// @Tags         reference-data
// @Produce      json
// @Success      200  {array}  models.VehicleType
// @Router       /api/vehicle-types [get]
func GetVehicleTypes(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		types := []models.VehicleType{}
		if err := gdb.Order("name ASC").Find(&types).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, types)
	}
}

// CreateVehicleType godoc
// @Summary      Create vehicle type
// @Tags         reference-data
// @Accept       json
// @Produce      json
// @Param        body  body      models.ReferenceItemInput  true  "Vehicle type"
// @Success      201   {object}  models.VehicleType
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/vehicle-types [post]
func CreateVehicleType(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ReferenceItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		name := repository.NormalizeReferenceName(input.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		vt := models.VehicleType{Name: name, IsActive: true}
		if input.IsActive != nil {
			vt.IsActive = *input.IsActive
		}

		if err := gdb.Create(&vt).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, vt)
	}
}

// UpdateVehicleType godoc
// @Summary      Rename vehicle type
// @Tags         reference-data
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Vehicle type ID"
// @Param        body  body      models.ReferenceItemInput  true  "Vehicle type"
// @Success      200   {object}  models.VehicleType
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/vehicle-types/{id} [put]
func UpdateVehicleType(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle type ID"})
			return
		}

		var input models.ReferenceItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		name := repository.NormalizeReferenceName(input.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		var vt models.VehicleType
		if err := gdb.First(&vt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle type not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := gdb.Model(&vt).Update("name", name).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, vt)
	}
}

// ToggleVehicleType godoc
// @Summary      Toggle vehicle type active flag
// @Tags         reference-data
// @Produce      json
// @Param        id   path      int  true  "Vehicle type ID"
// @Success      200  {object}  models.VehicleType
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/vehicle-types/{id}/toggle [put]
func ToggleVehicleType(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle type ID"})
			return
		}

		var vt models.VehicleType
		if err := gdb.First(&vt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle type not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := gdb.Model(&vt).Update("is_active", !vt.IsActive).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, vt)
	}
}
