package listing

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Category represents a listing category
type Category string

const (
	CategoryMarriageGarden Category = "marriage_garden"
	CategoryWeddingPlanner Category = "wedding_planner"
	CategoryPhotographer   Category = "photographer"
	CategoryDJ             Category = "dj"
	CategoryTentHouse      Category = "tent_house"
	CategoryFlowerVendor   Category = "flower_vendor"
	CategoryCarRental      Category = "car_rental"
	CategoryPGHostel       Category = "pg_hostel"
)

// ValidCategories returns all listing categories
func ValidCategories() []Category {
	return []Category{
		CategoryMarriageGarden, CategoryWeddingPlanner, CategoryPhotographer,
		CategoryDJ, CategoryTentHouse, CategoryFlowerVendor,
		CategoryCarRental, CategoryPGHostel,
	}
}

// IsValidCategory checks if a category string is known
func IsValidCategory(c string) bool {
	for _, v := range ValidCategories() {
		if string(v) == c {
			return true
		}
	}
	return false
}

// Status represents listing moderation status
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusDeleted  Status = "deleted"
)

// Package represents a priced offer inside a listing
type Package struct {
	Name  string   `json:"name"`
	Price int64    `json:"price"`
	Items []string `json:"items,omitempty"`
}

// PackageList is a JSONB-backed slice of packages
type PackageList []Package

// Value implements driver.Valuer for JSONB storage
func (p PackageList) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB storage
func (p *PackageList) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported packages scan type %T", src)
	}
	return json.Unmarshal(b, p)
}

// Details holds the category-specific payload
type Details map[string]interface{}

// Value implements driver.Valuer for JSONB storage
func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage
func (d *Details) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported details scan type %T", src)
	}
	return json.Unmarshal(b, d)
}

// Listing represents a marketplace service listing (matches listings table)
type Listing struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	VendorID    uuid.UUID      `db:"vendor_id" json:"vendor_id"`
	Category    Category       `db:"category" json:"category"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	City        string         `db:"city" json:"city"`
	Area        string         `db:"area" json:"area"`
	Address     string         `db:"address" json:"address"`
	Pincode     string         `db:"pincode" json:"pincode"`
	PriceUnit   string         `db:"price_unit" json:"price_unit"`
	BasePrice   sql.NullInt64  `db:"base_price" json:"base_price"`
	CapacityMin sql.NullInt64  `db:"capacity_min" json:"capacity_min"`
	CapacityMax sql.NullInt64  `db:"capacity_max" json:"capacity_max"`
	MainImage   string         `db:"main_image" json:"main_image"`
	Gallery     pq.StringArray `db:"gallery" json:"gallery"`
	Amenities   pq.StringArray `db:"amenities" json:"amenities"`
	Features    pq.StringArray `db:"features" json:"features"`
	Packages    PackageList    `db:"packages" json:"packages"`
	Details     Details        `db:"details" json:"details"`
	RatingAvg   float64        `db:"rating_avg" json:"rating_avg"`
	RatingCount int            `db:"rating_count" json:"rating_count"`
	Status      Status         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ComparablePrice returns the price used for filtering and booking totals:
// the cheapest package when packages exist, otherwise the base price.
// ok is false when the listing carries no price at all.
func (l *Listing) ComparablePrice() (int64, bool) {
	if len(l.Packages) > 0 {
		min := l.Packages[0].Price
		for _, p := range l.Packages[1:] {
			if p.Price < min {
				min = p.Price
			}
		}
		return min, true
	}
	if l.BasePrice.Valid {
		return l.BasePrice.Int64, true
	}
	return 0, false
}

// Images returns the canonical image array: main image first, then gallery.
// Index 0 is always the main image.
func (l *Listing) Images() []string {
	images := make([]string, 0, len(l.Gallery)+1)
	if l.MainImage != "" {
		images = append(images, l.MainImage)
	}
	images = append(images, l.Gallery...)
	return images
}

// ImageAt returns the image at index i, clamped to the valid range.
// Returns "" only when the listing has no images.
func (l *Listing) ImageAt(i int) string {
	images := l.Images()
	if len(images) == 0 {
		return ""
	}
	if i < 0 {
		i = 0
	}
	if i >= len(images) {
		i = len(images) - 1
	}
	return images[i]
}

// HasAmenity reports whether the listing carries the given amenity
func (l *Listing) HasAmenity(amenity string) bool {
	for _, a := range l.Amenities {
		if a == amenity {
			return true
		}
	}
	return false
}
