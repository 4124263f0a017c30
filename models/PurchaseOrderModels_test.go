package models

import "testing"

func TestValidateOrderTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"pending to paid", OrderStatusPending, OrderStatusPaid, false},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, false},
		{"pending to delivered skips payment", OrderStatusPending, OrderStatusDelivered, true},
		{"paid to delivered", OrderStatusPaid, OrderStatusDelivered, false},
		{"paid to cancelled", OrderStatusPaid, OrderStatusCancelled, false},
		{"paid back to pending", OrderStatusPaid, OrderStatusPending, true},
		{"delivered to completed", OrderStatusDelivered, OrderStatusCompleted, false},
		{"delivered to cancelled", OrderStatusDelivered, OrderStatusCancelled, true},
		{"completed is terminal", OrderStatusCompleted, OrderStatusPaid, true},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, true},
		{"case insensitive", "Pending", "PAID", false},
		{"unknown source", "shipped", OrderStatusPaid, true},
		{"unknown target", OrderStatusPending, "shipped", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrderTransition(%q, %q) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusPaid, OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, "PAID"} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"shipped", "", "done"} {
		if ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = true, want false", s)
		}
	}
}

func TestIsCompletedOrderStatus(t *testing.T) {
	if !IsCompletedOrderStatus(OrderStatusDelivered) {
		t.Error("delivered orders belong in the completed view")
	}
	if !IsCompletedOrderStatus("Completed") {
		t.Error("completed orders belong in the completed view")
	}
	if IsCompletedOrderStatus(OrderStatusPaid) {
		t.Error("paid orders do not belong in the completed view")
	}
}
