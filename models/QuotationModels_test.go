package models

import "testing"

func TestComputeTotals(t *testing.T) {
	q := Quotation{
		Products: []QuotationProduct{
			{PartName: "Front brake pads", Quantity: 2, UnitPrice: 2500},
			{PartName: "Brake fluid", Quantity: 1, UnitPrice: 450.50},
		},
		// Client-supplied totals must be overwritten.
		TotalAmount: 99999,
	}
	q.Products[0].TotalPrice = 1

	q.ComputeTotals()

	if got := q.Products[0].TotalPrice; got != 5000 {
		t.Errorf("line 0 total = %f, want 5000", got)
	}
	if got := q.Products[1].TotalPrice; got != 450.50 {
		t.Errorf("line 1 total = %f, want 450.50", got)
	}
	if got := q.TotalAmount; got != 5450.50 {
		t.Errorf("TotalAmount = %f, want 5450.50", got)
	}
}

func TestExtractDeliveryCost(t *testing.T) {
	tests := []struct {
		name  string
		notes string
		want  string
	}{
		{"colon and space", "Delivery Cost: 450.00 within city limits", "450.00"},
		{"lowercase", "delivery cost: 300", "300"},
		{"whitespace separator", "Delivery Cost  120.5", "120.5"},
		{"embedded in sentence", "Ships in 3 days. Delivery Cost: 75.25.", "75.25"},
		{"no pattern", "Free shipping on orders above 5000", "-"},
		{"empty notes", "", "-"},
		{"cost without number", "Delivery Cost: TBD", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDeliveryCost(tt.notes); got != tt.want {
				t.Errorf("ExtractDeliveryCost(%q) = %q, want %q", tt.notes, got, tt.want)
			}
		})
	}
}

func TestDeliveryChargeDisplay(t *testing.T) {
	charge := 450.0
	q := Quotation{DeliveryCharge: &charge, Notes: "Delivery Cost: 999.99"}
	if got := q.DeliveryChargeDisplay(); got != "450.00" {
		t.Errorf("structured column should win, got %q", got)
	}

	q = Quotation{Notes: "Delivery Cost: 300.50"}
	if got := q.DeliveryChargeDisplay(); got != "300.50" {
		t.Errorf("notes fallback = %q, want 300.50", got)
	}

	q = Quotation{Notes: "Ships next week"}
	if got := q.DeliveryChargeDisplay(); got != "-" {
		t.Errorf("no charge anywhere = %q, want -", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{450, "450.00"},
		{450.5, "450.50"},
		{450.55, "450.55"},
		{0, "0.00"},
		{1234.2, "1234.20"},
	}

	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
