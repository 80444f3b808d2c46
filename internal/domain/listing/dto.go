package listing

import (
	"time"
)

// CreateRequest represents listing creation input
type CreateRequest struct {
	Category    string         `json:"category" validate:"required,category"`
	Name        string         `json:"name" validate:"required,min=3,max=150"`
	Description string         `json:"description" validate:"required,min=10,max=5000"`
	City        string         `json:"city" validate:"required,min=2,max=100"`
	Area        string         `json:"area" validate:"omitempty,max=100"`
	Address     string         `json:"address" validate:"required,min=5,max=300"`
	Pincode     string         `json:"pincode" validate:"omitempty,len=6"`
	PriceUnit   string         `json:"price_unit" validate:"omitempty,price_unit"`
	BasePrice   *int64         `json:"base_price" validate:"omitempty,gte=0"`
	CapacityMin *int64         `json:"capacity_min" validate:"omitempty,gte=0"`
	CapacityMax *int64         `json:"capacity_max" validate:"omitempty,gte=0"`
	Amenities   []string       `json:"amenities" validate:"omitempty,max=50,dive,max=100"`
	Features    []string       `json:"features" validate:"omitempty,max=50,dive,max=100"`
	Packages    []PackageInput `json:"packages" validate:"omitempty,max=20,dive"`
	Details     Details        `json:"details"`
}

// PackageInput represents a package in create/update input
type PackageInput struct {
	Name  string   `json:"name" validate:"required,min=2,max=100"`
	Price int64    `json:"price" validate:"required,gte=0"`
	Items []string `json:"items" validate:"omitempty,max=30,dive,max=200"`
}

// UpdateRequest represents listing update input
type UpdateRequest struct {
	Name        string         `json:"name" validate:"required,min=3,max=150"`
	Description string         `json:"description" validate:"required,min=10,max=5000"`
	City        string         `json:"city" validate:"required,min=2,max=100"`
	Area        string         `json:"area" validate:"omitempty,max=100"`
	Address     string         `json:"address" validate:"required,min=5,max=300"`
	Pincode     string         `json:"pincode" validate:"omitempty,len=6"`
	PriceUnit   string         `json:"price_unit" validate:"omitempty,price_unit"`
	BasePrice   *int64         `json:"base_price" validate:"omitempty,gte=0"`
	CapacityMin *int64         `json:"capacity_min" validate:"omitempty,gte=0"`
	CapacityMax *int64         `json:"capacity_max" validate:"omitempty,gte=0"`
	Amenities   []string       `json:"amenities" validate:"omitempty,max=50,dive,max=100"`
	Features    []string       `json:"features" validate:"omitempty,max=50,dive,max=100"`
	Packages    []PackageInput `json:"packages" validate:"omitempty,max=20,dive"`
	Details     Details        `json:"details"`
}

// Response represents a listing in collection results
type Response struct {
	ID              string    `json:"id"`
	VendorID        string    `json:"vendor_id"`
	Category        string    `json:"category"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	City            string    `json:"city"`
	Area            string    `json:"area,omitempty"`
	PriceUnit       string    `json:"price_unit,omitempty"`
	ComparablePrice *int64    `json:"comparable_price,omitempty"`
	CapacityMin     *int64    `json:"capacity_min,omitempty"`
	CapacityMax     *int64    `json:"capacity_max,omitempty"`
	MainImage       string    `json:"main_image,omitempty"`
	RatingAvg       float64   `json:"rating_avg"`
	RatingCount     int       `json:"rating_count"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// DetailResponse represents the listing detail page payload
type DetailResponse struct {
	Response
	Address   string    `json:"address"`
	Pincode   string    `json:"pincode,omitempty"`
	BasePrice *int64    `json:"base_price,omitempty"`
	Images    []string  `json:"images"`
	Amenities []string  `json:"amenities"`
	Features  []string  `json:"features"`
	Packages  []Package `json:"packages"`
	Details   Details   `json:"details,omitempty"`
	Tabs      []Tab     `json:"tabs"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts a listing to its collection representation
func ToResponse(l *Listing) Response {
	resp := Response{
		ID:          l.ID.String(),
		VendorID:    l.VendorID.String(),
		Category:    string(l.Category),
		Name:        l.Name,
		Description: l.Description,
		City:        l.City,
		Area:        l.Area,
		PriceUnit:   l.PriceUnit,
		MainImage:   l.MainImage,
		RatingAvg:   l.RatingAvg,
		RatingCount: l.RatingCount,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
	}
	if price, ok := l.ComparablePrice(); ok {
		resp.ComparablePrice = &price
	}
	if l.CapacityMin.Valid {
		v := l.CapacityMin.Int64
		resp.CapacityMin = &v
	}
	if l.CapacityMax.Valid {
		v := l.CapacityMax.Int64
		resp.CapacityMax = &v
	}
	return resp
}

// ToDetailResponse converts a listing to its detail representation
func ToDetailResponse(l *Listing) DetailResponse {
	resp := DetailResponse{
		Response:  ToResponse(l),
		Address:   l.Address,
		Pincode:   l.Pincode,
		Images:    l.Images(),
		Amenities: l.Amenities,
		Features:  l.Features,
		Packages:  l.Packages,
		Details:   l.Details,
		Tabs:      TabsFor(l.Category).Tabs(),
		UpdatedAt: l.UpdatedAt,
	}
	if l.BasePrice.Valid {
		v := l.BasePrice.Int64
		resp.BasePrice = &v
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	if resp.Features == nil {
		resp.Features = []string{}
	}
	if resp.Packages == nil {
		resp.Packages = []Package{}
	}
	return resp
}
