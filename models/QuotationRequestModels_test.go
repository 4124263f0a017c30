package models

import "testing"

func TestMatchesQuery(t *testing.T) {
	r := QuotationRequest{
		BuyerName:    "John Doe",
		VehicleMake:  "Toyota",
		VehicleModel: "Corolla",
		VehicleYear:  "2018",
		PartName:     "Front brake pads",
		PartNumber:   "BP-4432",
		Description:  "OEM or equivalent",
		Status:       RequestStatusPending,
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty query matches", "", true},
		{"make", "toyota", true},
		{"partial part name", "brake", true},
		{"part number", "bp-4432", true},
		{"mixed case", "COROLLA", true},
		{"buyer name", "john", true},
		{"query with padding", "  2018  ", true},
		{"no match", "honda", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.MatchesQuery(tt.query); got != tt.want {
				t.Errorf("MatchesQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestCanCancelRequest(t *testing.T) {
	if !CanCancelRequest(RequestStatusPending) {
		t.Error("pending requests should be cancellable")
	}
	if !CanCancelRequest(RequestStatusReceivedQuotes) {
		t.Error("quoted requests should be cancellable")
	}
	if CanCancelRequest(RequestStatusCompleted) {
		t.Error("completed requests should not be cancellable")
	}
	if CanCancelRequest(RequestStatusCancelled) {
		t.Error("cancelled requests should not be cancellable twice")
	}
}
