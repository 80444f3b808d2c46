package listing

import (
	"strings"
)

// PriceRange is a closed interval over comparable price.
// Max == 0 means open-ended at the top.
type PriceRange struct {
	Min int64
	Max int64
}

// Contains reports whether price falls inside the range
func (r PriceRange) Contains(price int64) bool {
	if price < r.Min {
		return false
	}
	if r.Max > 0 && price > r.Max {
		return false
	}
	return true
}

// IsZero reports whether the range is unset
func (r PriceRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Named price buckets exposed by the API
var priceBuckets = map[string]PriceRange{
	"under-10000":  {Min: 0, Max: 10000},
	"10000-25000":  {Min: 10000, Max: 25000},
	"25000-50000":  {Min: 25000, Max: 50000},
	"50000-100000": {Min: 50000, Max: 100000},
	"above-100000": {Min: 100000, Max: 0},
}

// ParsePriceRange resolves a named bucket into a typed range
func ParsePriceRange(bucket string) (PriceRange, bool) {
	r, ok := priceBuckets[bucket]
	return r, ok
}

// PriceBucketNames returns the known bucket names
func PriceBucketNames() []string {
	return []string{"under-10000", "10000-25000", "25000-50000", "50000-100000", "above-100000"}
}

// FilterCriteria holds the optional listing filters. Zero value matches
// everything.
type FilterCriteria struct {
	City        string
	Category    Category
	Price       PriceRange
	MinCapacity int
	MaxCapacity int
	Query       string
	Amenity     string
}

// IsEmpty reports whether no criteria are set
func (c FilterCriteria) IsEmpty() bool {
	return c.City == "" && c.Category == "" && c.Price.IsZero() &&
		c.MinCapacity == 0 && c.MaxCapacity == 0 && c.Query == "" && c.Amenity == ""
}

// Matches reports whether the listing satisfies every set criterion.
// Unset criteria always pass.
func (c FilterCriteria) Matches(l *Listing) bool {
	if l == nil {
		return false
	}

	if c.City != "" && !strings.EqualFold(l.City, c.City) {
		return false
	}

	if c.Category != "" && l.Category != c.Category {
		return false
	}

	if !c.Price.IsZero() {
		price, ok := l.ComparablePrice()
		if !ok {
			// No price at all: never matches a price criterion
			return false
		}
		if !c.Price.Contains(price) {
			return false
		}
	}

	if c.MinCapacity > 0 {
		if !l.CapacityMax.Valid || l.CapacityMax.Int64 < int64(c.MinCapacity) {
			return false
		}
	}

	if c.MaxCapacity > 0 {
		if !l.CapacityMin.Valid || l.CapacityMin.Int64 > int64(c.MaxCapacity) {
			return false
		}
	}

	if c.Query != "" {
		q := strings.ToLower(c.Query)
		if !strings.Contains(strings.ToLower(l.Name), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}

	if c.Amenity != "" && !l.HasAmenity(c.Amenity) {
		return false
	}

	return true
}

// Apply filters a collection, preserving order
func (c FilterCriteria) Apply(listings []*Listing) []*Listing {
	if c.IsEmpty() {
		return listings
	}

	result := make([]*Listing, 0, len(listings))
	for _, l := range listings {
		if c.Matches(l) {
			result = append(result, l)
		}
	}
	return result
}
