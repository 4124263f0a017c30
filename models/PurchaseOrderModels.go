package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Purchase order statuses. The set is closed; transitions go through
// ValidateOrderTransition instead of ad-hoc field writes.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// PurchaseOrder is created when a buyer accepts a quotation and is tracked
// through delivery and completion. It replaces the former split between
// order and purchase-order records.
type PurchaseOrder struct {
	ID                 int                `json:"id" example:"1"`
	OrderNumber        string             `json:"order_number" example:"PO-AB12345"`
	BuyerID            int                `json:"buyer_id" example:"7"`
	VendorID           int                `json:"vendor_id" example:"12"`
	QuotationID        int                `json:"quotation_id" example:"4"`
	QuotationRequestID int                `json:"quotation_request_id" example:"1"`
	Products           []QuotationProduct `json:"products"`
	TotalAmount        float64            `json:"total_amount" example:"5450.00"`
	DeliveryCharge     *float64           `json:"delivery_charge,omitempty" example:"450.00"`
	Status             string             `json:"status" example:"pending"`
	PaymentSlipURL     string             `json:"payment_slip_url,omitempty" example:""`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
}

var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[strings.ToLower(s)]
	return ok
}

// ValidateOrderTransition returns an error when moving an order from one
// status to another is not allowed.
func ValidateOrderTransition(from, to string) error {
	from = strings.ToLower(from)
	to = strings.ToLower(to)
	next, ok := orderTransitions[from]
	if !ok {
		return fmt.Errorf("unknown order status %q", from)
	}
	if !ValidOrderStatus(to) {
		return fmt.Errorf("unknown order status %q", to)
	}
	for _, s := range next {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("cannot move order from %q to %q", from, to)
}

// IsCompletedOrderStatus reports whether the order belongs in the buyer's
// completed-orders view.
func IsCompletedOrderStatus(status string) bool {
	s := strings.ToLower(status)
	return s == OrderStatusDelivered || s == OrderStatusCompleted
}

func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
