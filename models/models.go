package models

import (
	"time"

	_ "github.com/lib/pq"
)

type User struct {
	ID          int       `json:"id" example:"1"`
	Email       string    `json:"email" example:"buyer@example.com"`
	Password    string    `json:"password" example:""`
	FirstName   string    `json:"first_name" example:"John"`
	LastName    string    `json:"last_name" example:"Doe"`
	PhoneNo     string    `json:"phone_no" example:"9876543210"`
	Role        string    `json:"role" example:"buyer"`
	IsActive    bool      `json:"is_active" example:"true"`
	Suspended   bool      `json:"suspended" example:"false"`
	ProfilePic  string    `json:"profile_picture" example:""`
	Address     string    `json:"address" example:"123 Main St"`
	City        string    `json:"city" example:"Mumbai"`
	State       string    `json:"state" example:"Maharashtra"`
	Country     string    `json:"country" example:"India"`
	ZipCode     string    `json:"zip_code" example:"400001"`
	CreatedAt   time.Time `json:"created_at" example:"2025-01-15T10:30:00Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2025-01-15T10:30:00Z"`
	LastAccess  time.Time `json:"last_access,omitempty" example:"2025-01-15T10:30:00Z"`
	FirstAccess time.Time `json:"first_access,omitempty" example:"2025-01-15T10:30:00Z"`
}

// Roles recognized by the role gate. Compared case-insensitively.
const (
	RoleBuyer  = "buyer"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type Session struct {
	UserID                int       `json:"user_id" example:"1"`
	SessionID             string    `json:"session_id" example:""`
	HostName              string    `json:"host_name" example:"buyer@example.com"`
	IPAddress             string    `json:"ip_address" example:"192.168.1.10"`
	Timestamp             time.Time `json:"timestamp" example:"2025-01-15T10:30:00Z"`
	ExpiresAt             time.Time `json:"expires_at" example:"2025-01-15T10:45:00Z"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"buyer@example.com"`
	Password string `json:"password" binding:"required" example:""`
	IP       string `json:"ip" binding:"required" example:"192.168.1.10"`
}

type LoginResponse struct {
	Message      string `json:"message" example:"Login successful"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role" example:"buyer"`
	ExpiresIn    int    `json:"expires_in" example:"900"`
}

type ActivityLog struct {
	ID           int       `json:"id" example:"1"`
	EventContext string    `json:"event_context" example:"PurchaseOrder"`
	EventName    string    `json:"event_name" example:"Post"`
	Description  string    `json:"description" example:"Quotation accepted"`
	UserName     string    `json:"user_name" example:"John Doe"`
	HostName     string    `json:"host_name" example:"buyer@example.com"`
	IPAddress    string    `json:"ip_address" example:"192.168.1.10"`
	CreatedAt    time.Time `json:"created_at" example:"2025-01-15T10:30:00Z"`
}

type Notification struct {
	ID        int       `json:"id" example:"1"`
	UserID    int       `json:"user_id" example:"1"`
	Message   string    `json:"message" example:"A new quotation has arrived"`
	Status    string    `json:"status" example:"unread"`
	Action    string    `json:"action" example:"/buyer/quotations/12"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid input"`
	Details string `json:"details,omitempty" example:""`
}

type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}
