package models

import (
	"regexp"
	"strings"
	"time"
)

const (
	QuotationStatusSubmitted = "submitted"
	QuotationStatusAccepted  = "accepted"
	QuotationStatusRejected  = "rejected"
)

// Quotation is a vendor's priced response to a quotation request.
type Quotation struct {
	ID                 int                `json:"id" example:"1"`
	QuotationRequestID int                `json:"quotation_request_id" example:"1"`
	VendorID           int                `json:"vendor_id" example:"12"`
	VendorName         string             `json:"vendor_name" example:"AutoSpares Ltd"`
	VendorEmail        string             `json:"vendor_email" example:"sales@autospares.example"`
	Products           []QuotationProduct `json:"products"`
	TotalAmount        float64            `json:"total_amount" example:"5450.00"`
	DeliveryCharge     *float64           `json:"delivery_charge,omitempty" example:"450.00"`
	Notes              string             `json:"notes" example:"Delivery within 3 working days."`
	Status             string             `json:"status" example:"submitted"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type QuotationProduct struct {
	ID          int     `json:"id" example:"1"`
	QuotationID int     `json:"quotation_id" example:"1"`
	PartName    string  `json:"part_name" example:"Front brake pads"`
	Quantity    float64 `json:"quantity" example:"2"`
	UnitPrice   float64 `json:"unit_price" example:"2500.00"`
	TotalPrice  float64 `json:"total_price" example:"5000.00"`
}

type QuotationInput struct {
	QuotationRequestID int                     `json:"quotation_request_id" binding:"required"`
	Products           []QuotationProductInput `json:"products" binding:"required,min=1,dive"`
	DeliveryCharge     *float64                `json:"delivery_charge"`
	Notes              string                  `json:"notes"`
}

type QuotationProductInput struct {
	PartName  string  `json:"part_name" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

// ComputeTotals recalculates each line's total and the quotation total.
// Client-supplied totals are never trusted.
func (q *Quotation) ComputeTotals() {
	var total float64
	for i := range q.Products {
		q.Products[i].TotalPrice = q.Products[i].Quantity * q.Products[i].UnitPrice
		total += q.Products[i].TotalPrice
	}
	q.TotalAmount = total
}

// deliveryCostRe matches the legacy prose convention vendors used before
// delivery_charge became a structured column, e.g. "Delivery Cost: 450.00".
var deliveryCostRe = regexp.MustCompile(`(?i)Delivery Cost[:\s]+([0-9]+(?:\.[0-9]{1,2})?)`)

// ExtractDeliveryCost returns the delivery cost embedded in free-text notes,
// or "-" when the notes do not carry the legacy pattern.
func ExtractDeliveryCost(notes string) string {
	m := deliveryCostRe.FindStringSubmatch(notes)
	if m == nil {
		return "-"
	}
	return m[1]
}

// DeliveryChargeDisplay prefers the structured column and falls back to the
// legacy notes convention for quotations created before the migration.
func (q *Quotation) DeliveryChargeDisplay() string {
	if q.DeliveryCharge != nil {
		return formatAmount(*q.DeliveryCharge)
	}
	return ExtractDeliveryCost(q.Notes)
}

// formatAmount keeps two decimals so 450 renders as 450.00, matching the
// legacy notes format.
func formatAmount(v float64) string {
	s := floatToString(v)
	i := strings.Index(s, ".")
	if i < 0 {
		return s + ".00"
	}
	if len(s)-i == 2 {
		return s + "0"
	}
	return s
}

// DeliveryMessage is a vendor-authored delivery-cost note tied to a quotation.
type DeliveryMessage struct {
	ID          int       `json:"id" example:"1"`
	QuotationID int       `json:"quotation_id" example:"1"`
	VendorID    int       `json:"vendor_id" example:"12"`
	Message     string    `json:"message" example:"Delivery Cost: 450.00 to Pune city limits"`
	Cost        *float64  `json:"cost,omitempty" example:"450.00"`
	CreatedAt   time.Time `json:"created_at"`
}
