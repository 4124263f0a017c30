package services

import (
	"database/sql"
	"fmt"
	"net/smtp"
	"os"
	"regexp"
	"strings"

	"partshub/models"

	"golang.org/x/net/html"
)

// convertHTMLToText converts HTML content to plain text for email sending
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			// Add line breaks for block elements
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "table":
				text.WriteString("\n")
			case "tr":
				text.WriteString("\n")
			case "td", "th":
				text.WriteString(" | ")
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}

	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	result = strings.TrimSpace(result)

	return result
}

// EmailService handles email operations with template support
type EmailService struct {
	db *sql.DB
}

// NewEmailService creates a new email service instance
func NewEmailService(db *sql.DB) *EmailService {
	return &EmailService{db: db}
}

// PreviewEmailAsText converts an HTML template to plain text for preview.
func (es *EmailService) PreviewEmailAsText(htmlContent string, emailData models.EmailData) (string, error) {
	processedContent, err := es.processTemplate(htmlContent, emailData)
	if err != nil {
		return "", fmt.Errorf("failed to process template: %v", err)
	}

	return convertHTMLToText(processedContent), nil
}

// SendTemplatedEmail sends an email using a template with variable substitution.
// When customTemplateID is nil, the default template for the type is used.
func (es *EmailService) SendTemplatedEmail(templateType string, emailData models.EmailData, customTemplateID *int) error {
	var emailTemplate *models.EmailTemplate
	var err error

	if customTemplateID != nil {
		emailTemplate, err = models.GetTemplateByID(es.db, *customTemplateID)
		if err != nil {
			return fmt.Errorf("failed to get custom template (ID: %d): %v", *customTemplateID, err)
		}
		if emailTemplate.TemplateType != templateType {
			return fmt.Errorf("custom template type mismatch: expected %s, got %s", templateType, emailTemplate.TemplateType)
		}
	} else {
		emailTemplate, err = models.GetDefaultTemplate(es.db, templateType)
		if err != nil {
			return fmt.Errorf("failed to get default template for type '%s': %v", templateType, err)
		}
	}

	subject, err := es.processTemplate(emailTemplate.Subject, emailData)
	if err != nil {
		return fmt.Errorf("failed to process subject template: %v", err)
	}

	body, err := es.processTemplate(emailTemplate.Body, emailData)
	if err != nil {
		return fmt.Errorf("failed to process body template: %v", err)
	}

	plainTextBody := convertHTMLToText(body)

	return es.sendEmail(emailData.Email, subject, plainTextBody, emailTemplate.CC, emailTemplate.BCC)
}

// processTemplate processes a template string with variable substitution
func (es *EmailService) processTemplate(templateStr string, data models.EmailData) (string, error) {
	variables := map[string]string{
		"email":         data.Email,
		"user_name":     data.UserName,
		"buyer_name":    data.BuyerName,
		"vendor_name":   data.VendorName,
		"part_name":     data.PartName,
		"order_number":  data.OrderNumber,
		"order_status":  data.OrderStatus,
		"total_amount":  data.TotalAmount,
		"reset_link":    data.ResetLink,
		"login_url":     data.LoginURL,
		"support_email": data.SupportEmail,
	}

	result := templateStr
	for key, value := range variables {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result, nil
}

func smtpConfig() (host, port, username, password, from string) {
	host = os.Getenv("SMTP_HOST")
	port = os.Getenv("SMTP_PORT")
	username = os.Getenv("SMTP_USER")
	password = os.Getenv("SMTP_PASSWORD")
	from = os.Getenv("SMTP_FROM")
	if port == "" {
		port = "587"
	}
	if from == "" {
		from = username
	}
	return
}

// sendEmail sends an email using SMTP with optional CC and BCC
func (es *EmailService) sendEmail(to, subject, body string, cc, bcc []string) error {
	host, port, username, password, from := smtpConfig()
	if host == "" || username == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	auth := smtp.PlainAuth("", username, password, host)

	toList := []string{to}
	if len(cc) > 0 {
		toList = append(toList, cc...)
	}
	if len(bcc) > 0 {
		toList = append(toList, bcc...)
	}

	headers := []string{
		"From: " + from,
		"To: " + to,
	}
	if len(cc) > 0 {
		headers = append(headers, "Cc: "+strings.Join(cc, ", "))
	}
	headers = append(headers,
		"Subject: "+subject,
		"",
		body,
	)

	msg := []byte(strings.Join(headers, "\r\n") + "\r\n")

	return smtp.SendMail(host+":"+port, auth, from, toList, msg)
}

// SendQuotationReceivedEmail notifies a buyer that a vendor quoted their request.
func (es *EmailService) SendQuotationReceivedEmail(buyer models.User, vendorName, partName, totalAmount string) error {
	emailData := models.EmailData{
		Email:        buyer.Email,
		BuyerName:    strings.TrimSpace(buyer.FirstName + " " + buyer.LastName),
		VendorName:   vendorName,
		PartName:     partName,
		TotalAmount:  totalAmount,
		LoginURL:     os.Getenv("FRONTEND_BASE_URL"),
		SupportEmail: os.Getenv("SUPPORT_EMAIL"),
	}

	return es.SendTemplatedEmail("quotation_received", emailData, nil)
}

// SendOrderStatusEmail notifies a user about a purchase order status change.
func (es *EmailService) SendOrderStatusEmail(user models.User, orderNumber, status string) error {
	emailData := models.EmailData{
		Email:        user.Email,
		UserName:     strings.TrimSpace(user.FirstName + " " + user.LastName),
		OrderNumber:  orderNumber,
		OrderStatus:  status,
		LoginURL:     os.Getenv("FRONTEND_BASE_URL"),
		SupportEmail: os.Getenv("SUPPORT_EMAIL"),
	}

	return es.SendTemplatedEmail("order_status", emailData, nil)
}

// ValidateTemplate validates a template string for syntax errors
func (es *EmailService) ValidateTemplate(templateStr string) error {
	openBraces := strings.Count(templateStr, "{{")
	closeBraces := strings.Count(templateStr, "}}")

	if openBraces != closeBraces {
		return fmt.Errorf("unmatched braces in template")
	}

	re := regexp.MustCompile(`\{\{([^}]+)\}\}`)
	matches := re.FindAllStringSubmatch(templateStr, -1)

	validVariables := map[string]bool{
		"email":         true,
		"user_name":     true,
		"buyer_name":    true,
		"vendor_name":   true,
		"part_name":     true,
		"order_number":  true,
		"order_status":  true,
		"total_amount":  true,
		"reset_link":    true,
		"login_url":     true,
		"support_email": true,
	}

	for _, match := range matches {
		if len(match) > 1 {
			variable := strings.TrimSpace(match[1])
			if !validVariables[variable] {
				return fmt.Errorf("invalid variable: %s", variable)
			}
		}
	}

	return nil
}

// GetAvailableVariables returns a list of available template variables
func (es *EmailService) GetAvailableVariables() []models.EmailTemplateVariable {
	return []models.EmailTemplateVariable{
		{Key: "email", Description: "Recipient email"},
		{Key: "user_name", Description: "Recipient full name"},
		{Key: "buyer_name", Description: "Buyer full name"},
		{Key: "vendor_name", Description: "Vendor full name"},
		{Key: "part_name", Description: "Requested part name"},
		{Key: "order_number", Description: "Purchase order number"},
		{Key: "order_status", Description: "Purchase order status"},
		{Key: "total_amount", Description: "Quotation or order total"},
		{Key: "reset_link", Description: "Password reset link"},
		{Key: "login_url", Description: "Login URL"},
		{Key: "support_email", Description: "Support email"},
	}
}
