package models

import (
	"database/sql"
	"fmt"
	"time"
)

// EmailTemplate is a stored email template with {{variable}} placeholders.
type EmailTemplate struct {
	ID           int       `json:"id" example:"1"`
	TemplateType string    `json:"template_type" example:"quotation_received"`
	Subject      string    `json:"subject" example:"New quotation for {{part_name}}"`
	Body         string    `json:"body"`
	CC           []string  `json:"cc,omitempty"`
	BCC          []string  `json:"bcc,omitempty"`
	IsDefault    bool      `json:"is_default" example:"true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EmailData carries the variable values substituted into a template.
type EmailData struct {
	Email        string `json:"email"`
	UserName     string `json:"user_name"`
	BuyerName    string `json:"buyer_name"`
	VendorName   string `json:"vendor_name"`
	PartName     string `json:"part_name"`
	OrderNumber  string `json:"order_number"`
	OrderStatus  string `json:"order_status"`
	TotalAmount  string `json:"total_amount"`
	ResetLink    string `json:"reset_link"`
	LoginURL     string `json:"login_url"`
	SupportEmail string `json:"support_email"`
}

type EmailTemplateVariable struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// GetTemplateByID fetches a specific email template.
func GetTemplateByID(db *sql.DB, id int) (*EmailTemplate, error) {
	var t EmailTemplate
	query := `SELECT id, template_type, subject, body, is_default, created_at, updated_at
	          FROM email_templates WHERE id = $1`
	err := db.QueryRow(query, id).Scan(&t.ID, &t.TemplateType, &t.Subject, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("email template %d not found", id)
		}
		return nil, err
	}
	return &t, nil
}

// GetDefaultTemplate fetches the default template for a type.
func GetDefaultTemplate(db *sql.DB, templateType string) (*EmailTemplate, error) {
	var t EmailTemplate
	query := `SELECT id, template_type, subject, body, is_default, created_at, updated_at
	          FROM email_templates WHERE template_type = $1 AND is_default = TRUE LIMIT 1`
	err := db.QueryRow(query, templateType).Scan(&t.ID, &t.TemplateType, &t.Subject, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no default email template for type %q", templateType)
		}
		return nil, err
	}
	return &t, nil
}
