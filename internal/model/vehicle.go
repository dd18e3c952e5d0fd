package model

import "time"

// MaxVehicleImages is the number of carousel images a listing can carry.
const MaxVehicleImages = 3

// Vehicle is a listing in the public catalog.
type Vehicle struct {
	ID        int       `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Price     string    `json:"price"`
	Images    []string  `json:"images"`
	Condition string    `json:"condition"`
	Category  string    `json:"category"`
	Specs     string    `json:"specs"`
	CreatedAt time.Time `json:"created_at"`
}

// VehicleFilter narrows the catalog. Empty fields are ignored.
type VehicleFilter struct {
	Category  string `form:"category"`
	Condition string `form:"condition"`
	Brand     string `form:"brand"`
	Query     string `form:"q"`
}

// CreateVehicleRequest is the multipart form for a new listing. Images are read separately.
type CreateVehicleRequest struct {
	Brand     string `form:"brand" binding:"required,max=100"`
	Model     string `form:"model" binding:"required,max=100"`
	Price     string `form:"price" binding:"required,max=50"`
	Category  string `form:"category" binding:"required,max=50"`
	Condition string `form:"condition" binding:"max=50"`
	Specs     string `form:"specs" binding:"max=5000"`
}
