package models

import "time"

// Quotation request statuses. Transitions are validated in the handlers:
// pending -> received_quotes -> completed, and pending/received_quotes -> cancelled.
const (
	RequestStatusPending        = "pending"
	RequestStatusReceivedQuotes = "received_quotes"
	RequestStatusCompleted      = "completed"
	RequestStatusCancelled      = "cancelled"
)

type QuotationRequest struct {
	ID                 int       `json:"id" example:"1"`
	BuyerID            int       `json:"buyer_id" example:"7"`
	BuyerName          string    `json:"buyer_name,omitempty" example:"John Doe"`
	VehicleMake        string    `json:"vehicle_make" example:"Toyota"`
	VehicleModel       string    `json:"vehicle_model" example:"Corolla"`
	VehicleYear        string    `json:"vehicle_year" example:"2018"`
	VehicleTypeID      int       `json:"vehicle_type_id,omitempty" example:"3"`
	PartName           string    `json:"part_name" example:"Front brake pads"`
	PartNumber         string    `json:"part_number,omitempty" example:"BP-4432"`
	Description        string    `json:"description" example:"OEM or equivalent, full axle set"`
	ImageURL           string    `json:"image_url,omitempty" example:""`
	Status             string    `json:"status" example:"pending"`
	QuotationsReceived int       `json:"quotations_received" example:"0"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type QuotationRequestInput struct {
	VehicleMake   string `json:"vehicle_make" binding:"required"`
	VehicleModel  string `json:"vehicle_model" binding:"required"`
	VehicleYear   string `json:"vehicle_year"`
	VehicleTypeID int    `json:"vehicle_type_id"`
	PartName      string `json:"part_name" binding:"required"`
	PartNumber    string `json:"part_number"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
}

// MatchesQuery reports whether the free-text query matches any string field
// of the request, case-insensitively. Empty query matches everything.
func (r *QuotationRequest) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	return containsFold(query,
		r.VehicleMake, r.VehicleModel, r.VehicleYear,
		r.PartName, r.PartNumber, r.Description, r.Status, r.BuyerName)
}

// CanCancel reports whether a request in the given status may be cancelled.
func CanCancelRequest(status string) bool {
	return status == RequestStatusPending || status == RequestStatusReceivedQuotes
}
