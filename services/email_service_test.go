package services

import (
	"strings"
	"testing"

	"partshub/models"
)

func TestProcessTemplateSubstitution(t *testing.T) {
	es := NewEmailService(nil)
	data := models.EmailData{
		BuyerName:   "John Doe",
		VendorName:  "Apex Auto Spares",
		PartName:    "Front brake pads",
		TotalAmount: "5,450.00",
	}

	got, err := es.processTemplate("Hi {{buyer_name}}, {{vendor_name}} quoted {{total_amount}} for {{part_name}}.", data)
	if err != nil {
		t.Fatalf("processTemplate: %v", err)
	}
	want := "Hi John Doe, Apex Auto Spares quoted 5,450.00 for Front brake pads."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProcessTemplateLeavesUnknownPlaceholders(t *testing.T) {
	es := NewEmailService(nil)
	got, err := es.processTemplate("Hello {{unknown_var}}", models.EmailData{})
	if err != nil {
		t.Fatalf("processTemplate: %v", err)
	}
	if got != "Hello {{unknown_var}}" {
		t.Errorf("unknown placeholders should pass through, got %q", got)
	}
}

func TestValidateTemplate(t *testing.T) {
	es := NewEmailService(nil)

	if err := es.ValidateTemplate("Order {{order_number}} is now {{order_status}}."); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
	if err := es.ValidateTemplate("Broken {{order_number"); err == nil {
		t.Error("unmatched braces should be rejected")
	}
	if err := es.ValidateTemplate("Hello {{first_name}}"); err == nil {
		t.Error("unknown variable should be rejected")
	}
}

func TestConvertHTMLToText(t *testing.T) {
	html := `<html><body><h1>Order Update</h1><p>Order <b>PO-AB12345</b> is now paid.</p><ul><li>Item one</li><li>Item two</li></ul></body></html>`
	got := convertHTMLToText(html)

	for _, want := range []string{"Order Update", "PO-AB12345 is now paid.", "- Item one", "- Item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("plain text missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<") {
		t.Errorf("tags leaked into plain text:\n%s", got)
	}
}

func TestGetAvailableVariablesMatchValidator(t *testing.T) {
	es := NewEmailService(nil)
	for _, v := range es.GetAvailableVariables() {
		if err := es.ValidateTemplate("{{" + v.Key + "}}"); err != nil {
			t.Errorf("advertised variable %q rejected by validator: %v", v.Key, err)
		}
	}
}
