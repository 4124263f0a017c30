package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"partshub/models"
	"partshub/services"

	"github.com/gin-gonic/gin"
)

var validTemplateTypes = []string{"quotation_received", "order_status", "password_reset", "welcome"}

func isValidTemplateType(t string) bool {
	for _, v := range validTemplateTypes {
		if t == v {
			return true
		}
	}
	return false
}

// CreateEmailTemplate godoc
// @Summary      Create email template
// @Tags         email-templates
// @Accept       json
// @Produce      json
// @Param        template  body      models.EmailTemplate  true  "Email template"
// @Success      201       {object}  models.EmailTemplate
// @Failure      400       {object}  models.ErrorResponse
// @Router       /api/email-templates [post]
func CreateEmailTemplate(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.EmailTemplate
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		if !isValidTemplateType(request.TemplateType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template type", "valid_types": validTemplateTypes})
			return
		}

		emailService := services.NewEmailService(db)
		if err := emailService.ValidateTemplate(request.Subject + " " + request.Body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template", "details": err.Error()})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		if request.IsDefault {
			_, err = tx.Exec("UPDATE email_templates SET is_default = false WHERE template_type = $1", request.TemplateType)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update existing defaults"})
				return
			}
		}

		var templateID int
		err = tx.QueryRow(`
			INSERT INTO email_templates (template_type, subject, body, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING id`,
			request.TemplateType, request.Subject, request.Body, request.IsDefault).Scan(&templateID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template", "details": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		if user, ok := CurrentUser(c); ok {
			logEntry := models.ActivityLog{
				EventContext: "Email Template",
				EventName:    "Create",
				Description:  fmt.Sprintf("Email template %q created", request.TemplateType),
				UserName:     user.FirstName + " " + user.LastName,
				CreatedAt:    time.Now(),
			}
			if logErr := SaveActivityLog(db, logEntry); logErr != nil {
				fmt.Printf("Failed to log activity: %v\n", logErr)
			}
		}

		template, err := models.GetTemplateByID(db, templateID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Template created but failed to retrieve"})
			return
		}

		c.JSON(http.StatusCreated, template)
	}
}

// GetEmailTemplates godoc
// @Summary      List email templates
// @Tags         email-templates
// @Produce      json
// @Param        type  query     string  false  "Filter by template type"
// @Success      200   {array}   models.EmailTemplate
// @Router       /api/email-templates [get]
func GetEmailTemplates(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := `SELECT id, template_type, subject, body, is_default, created_at, updated_at
		          FROM email_templates`
		args := []interface{}{}
		if t := c.Query("type"); t != "" {
			query += " WHERE template_type = $1"
			args = append(args, t)
		}
		query += " ORDER BY template_type, is_default DESC, id"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
			return
		}
		defer rows.Close()

		templates := []models.EmailTemplate{}
		for rows.Next() {
			var t models.EmailTemplate
			if err := rows.Scan(&t.ID, &t.TemplateType, &t.Subject, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning template"})
				return
			}
			templates = append(templates, t)
		}

		c.JSON(http.StatusOK, templates)
	}
}

// PreviewEmailTemplate godoc
// @Summary      Preview a template rendered with sample data as plain text
// @Tags         email-templates
// @Produce      json
// @Param        id   path      int  true  "Template ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/email-templates/{id}/preview [get]
func PreviewEmailTemplate(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
			return
		}

		template, err := models.GetTemplateByID(db, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		sample := models.EmailData{
			UserName:    "Jordan Smith",
			BuyerName:   "Jordan Smith",
			VendorName:  "Apex Auto Spares",
			PartName:    "Front brake pads",
			OrderNumber: "PO-AB12345",
			OrderStatus: "paid",
			TotalAmount: "4,500.00",
		}

		emailService := services.NewEmailService(db)
		preview, err := emailService.PreviewEmailAsText(template.Body, sample)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render preview", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"template_type": template.TemplateType,
			"subject":       template.Subject,
			"preview":       preview,
		})
	}
}

// GetEmailTemplateVariables godoc
// @Summary      List the variables available to email templates
// @Tags         email-templates
// @Produce      json
// @Success      200  {array}  models.EmailTemplateVariable
// @Router       /api/email-templates/variables [get]
func GetEmailTemplateVariables(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		emailService := services.NewEmailService(db)
		c.JSON(http.StatusOK, emailService.GetAvailableVariables())
	}
}

// DeleteEmailTemplate godoc
// @Summary      Delete email template
// @Tags         email-templates
// @Produce      json
// @Param        id   path      int  true  "Template ID"
// @Success      200  {object}  models.SuccessResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/email-templates/{id} [delete]
func DeleteEmailTemplate(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
			return
		}

		var isDefault bool
		err = db.QueryRow("SELECT is_default FROM email_templates WHERE id = $1", id).Scan(&isDefault)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch template"})
			return
		}
		if isDefault {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete the default template for a type"})
			return
		}

		if _, err := db.Exec("DELETE FROM email_templates WHERE id = $1", id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
	}
}
