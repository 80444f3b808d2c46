package listing

import (
	"fmt"
	"net/url"
	"strconv"
)

// criteriaFromQuery builds FilterCriteria from listing query parameters.
// `price_range` takes a named bucket; explicit min_price/max_price override it.
func criteriaFromQuery(q url.Values) (FilterCriteria, error) {
	criteria := FilterCriteria{
		City:    q.Get("city"),
		Query:   q.Get("q"),
		Amenity: q.Get("amenity"),
	}

	if bucket := q.Get("price_range"); bucket != "" {
		r, ok := ParsePriceRange(bucket)
		if !ok {
			return FilterCriteria{}, fmt.Errorf("%w: %s", ErrInvalidBucket, bucket)
		}
		criteria.Price = r
	}

	if v := q.Get("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return FilterCriteria{}, fmt.Errorf("invalid min_price: %s", v)
		}
		criteria.Price.Min = n
	}
	if v := q.Get("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return FilterCriteria{}, fmt.Errorf("invalid max_price: %s", v)
		}
		criteria.Price.Max = n
	}

	if v := q.Get("min_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return FilterCriteria{}, fmt.Errorf("invalid min_capacity: %s", v)
		}
		criteria.MinCapacity = n
	}
	if v := q.Get("max_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return FilterCriteria{}, fmt.Errorf("invalid max_capacity: %s", v)
		}
		criteria.MaxCapacity = n
	}

	return criteria, nil
}

func parseIntParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
