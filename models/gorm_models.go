package models

import "time"

// GORM-backed tables. Gallery images and the small reference lists are the
// only entities managed through GORM; the marketplace core stays on
// database/sql.

type GalleryImage struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	VendorID    int       `json:"vendor_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	ImageURL    string    `json:"image_url" gorm:"size:512;not null"`
	StoragePath string    `json:"storage_path" gorm:"size:512"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (GalleryImage) TableName() string { return "gallery_images" }

type MeasurementUnit struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MeasurementUnit) TableName() string { return "measurement_units" }

type VehicleType struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VehicleType) TableName() string { return "vehicle_types" }

type ReferenceItemInput struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active"`
}
