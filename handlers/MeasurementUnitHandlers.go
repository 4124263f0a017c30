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

// GetMeasurementUnits godoc
// @Summary      List measurement units
// @Tags         reference-data
// @Produce      json
// @Success      200  {array}  models.MeasurementUnit
// @Router       /api/measurement-units [get]
func GetMeasurementUnits(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		units := []models.MeasurementUnit{}
		if err := gdb.Order("name ASC").Find(&units).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, units)
	}
}

// CreateMeasurementUnit godoc
// @Summary      Create measurement unit
// @Tags         reference-data
// @Accept       json
// @Produce      json
// @Param        body  body      models.ReferenceItemInput  true  "Unit"
// @Success      201   {object}  models.MeasurementUnit
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/measurement-units [post]
func CreateMeasurementUnit(gdb *gorm.DB) gin.HandlerFunc {
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

		unit := models.MeasurementUnit{Name: name, IsActive: true}
		if input.IsActive != nil {
			unit.IsActive = *input.IsActive
		}

		if err := gdb.Create(&unit).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, unit)
	}
}

// UpdateMeasurementUnit godoc
// @Summary      Rename measurement unit
// @Tags         reference-data
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Unit ID"
// @Param        body  body      models.ReferenceItemInput  true  "Unit"
// @Success      200   {object}  models.MeasurementUnit
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/measurement-units/{id} [put]
func UpdateMeasurementUnit(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit ID"})
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

		var unit models.MeasurementUnit
		if err := gdb.First(&unit, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Measurement unit not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := gdb.Model(&unit).Update("name", name).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, unit)
	}
}

// ToggleMeasurementUnit godoc
// @Summary      Toggle measurement unit active flag
// @Tags         reference-data
// @Produce      json
// @Param        id   path      int  true  "Unit ID"
// @Success      200  {object}  models.MeasurementUnit
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/measurement-units/{id}/toggle [put]
func ToggleMeasurementUnit(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit ID"})
			return
		}

		var unit models.MeasurementUnit
		if err := gdb.First(&unit, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Measurement unit not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := gdb.Model(&unit).Update("is_active", !unit.IsActive).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, unit)
	}
}
