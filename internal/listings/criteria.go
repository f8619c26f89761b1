package listings

import (
	"fmt"
	"strings"
)

// SearchRequest carries the raw, unvalidated filter fields from the caller.
// Numeric bounds use pointers so "absent" and "zero" stay distinguishable.
type SearchRequest struct {
	PropertyType string
	ListingType  string
	Status       string

	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MaxBedrooms  *int
	MinBathrooms *int
	MaxBathrooms *int
	MinFloorArea *float64
	MaxFloorArea *float64
	MinYearBuilt *int
	MaxYearBuilt *int

	City         string
	State        string
	Neighborhood string
	Query        string

	Features  []string
	Amenities []string

	AgentID  string
	AgencyID string

	Latitude  *float64
	Longitude *float64
	Radius    *float64

	Page            int
	Limit           int
	SortBy          string
	SortDir         string
	IncludeInactive bool
}

// FloatRange is an optional min/max pair over float64.
type FloatRange struct {
	Min *float64
	Max *float64
}

// IsZero reports whether neither bound is set.
func (r FloatRange) IsZero() bool { return r.Min == nil && r.Max == nil }

// IntRange is an optional min/max pair over int.
type IntRange struct {
	Min *int
	Max *int
}

// IsZero reports whether neither bound is set.
func (r IntRange) IsZero() bool { return r.Min == nil && r.Max == nil }

// GeoFilter is a complete radius-search request in miles.
type GeoFilter struct {
	Latitude  float64
	Longitude float64
	Radius    float64
}

// Criteria is the normalized, validated form of a search filter. String
// filters are matched as case-insensitive substrings; set filters match
// listings containing at least one of the given tags.
type Criteria struct {
	PropertyType string
	ListingType  string
	Status       Status

	Price     FloatRange
	Bedrooms  IntRange
	Bathrooms IntRange
	FloorArea FloatRange
	YearBuilt IntRange

	City         string
	State        string
	Neighborhood string
	Query        string

	Features  []string
	Amenities []string

	AgentID  string
	AgencyID string

	Geo *GeoFilter

	// ExcludeInactive is forced by the search executor whenever the
	// caller asked for no specific status and did not opt into
	// inactive listings.
	ExcludeInactive bool
}

// SearchOptions controls pagination and ordering of a search.
type SearchOptions struct {
	Page            int
	Limit           int
	SortBy          string
	SortDesc        bool
	IncludeInactive bool
}

const (
	defaultLimit = 20
	maxLimit     = 100

	// DefaultSort orders results newest-first when the caller gives no
	// sort field or an unknown one.
	DefaultSort = "created_at"
)

var sortFields = map[string]bool{
	"price":      true,
	"bedrooms":   true,
	"bathrooms":  true,
	"floor_area": true,
	"year_built": true,
	"views":      true,
	"created_at": true,
}

// Compile validates a raw request and produces the Criteria/SearchOptions
// pair the executor runs with. It is a pure transformation.
func Compile(req SearchRequest) (Criteria, SearchOptions, error) {
	c := Criteria{
		PropertyType: strings.TrimSpace(req.PropertyType),
		ListingType:  strings.TrimSpace(req.ListingType),
		Price:        FloatRange{Min: req.MinPrice, Max: req.MaxPrice},
		Bedrooms:     IntRange{Min: req.MinBedrooms, Max: req.MaxBedrooms},
		Bathrooms:    IntRange{Min: req.MinBathrooms, Max: req.MaxBathrooms},
		FloorArea:    FloatRange{Min: req.MinFloorArea, Max: req.MaxFloorArea},
		YearBuilt:    IntRange{Min: req.MinYearBuilt, Max: req.MaxYearBuilt},
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		Query:        strings.TrimSpace(req.Query),
		Features:     trimAll(req.Features),
		Amenities:    trimAll(req.Amenities),
		AgentID:      strings.TrimSpace(req.AgentID),
		AgencyID:     strings.TrimSpace(req.AgencyID),
	}

	if status := strings.TrimSpace(req.Status); status != "" {
		s := Status(strings.ToUpper(status))
		if !ValidStatus(s) {
			return Criteria{}, SearchOptions{}, fmt.Errorf("%w: unknown status %q", ErrInvalidListing, status)
		}
		c.Status = s
	}

	if err := checkFloatRange("price", c.Price); err != nil {
		return Criteria{}, SearchOptions{}, err
	}
	if err := checkIntRange("bedrooms", c.Bedrooms); err != nil {
		return Criteria{}, SearchOptions{}, err
	}
	if err := checkIntRange("bathrooms", c.Bathrooms); err != nil {
		return Criteria{}, SearchOptions{}, err
	}
	if err := checkFloatRange("floorArea", c.FloorArea); err != nil {
		return Criteria{}, SearchOptions{}, err
	}
	if err := checkIntRange("yearBuilt", c.YearBuilt); err != nil {
		return Criteria{}, SearchOptions{}, err
	}

	geo, err := compileGeo(req.Latitude, req.Longitude, req.Radius)
	if err != nil {
		return Criteria{}, SearchOptions{}, err
	}
	c.Geo = geo

	opts := compileOptions(req)

	return c, opts, nil
}

func compileGeo(lat, lon, radius *float64) (*GeoFilter, error) {
	present := 0
	for _, v := range []*float64{lat, lon, radius} {
		if v != nil {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != 3 {
		return nil, fmt.Errorf("%w: latitude, longitude and radius must all be given", ErrInvalidGeoFilter)
	}
	if *lat < -90 || *lat > 90 {
		return nil, fmt.Errorf("%w: latitude %v out of bounds", ErrInvalidGeoFilter, *lat)
	}
	if *lon < -180 || *lon > 180 {
		return nil, fmt.Errorf("%w: longitude %v out of bounds", ErrInvalidGeoFilter, *lon)
	}
	if *radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrInvalidGeoFilter)
	}
	return &GeoFilter{Latitude: *lat, Longitude: *lon, Radius: *radius}, nil
}

func compileOptions(req SearchRequest) SearchOptions {
	opts := SearchOptions{
		Page:            req.Page,
		Limit:           req.Limit,
		SortBy:          strings.ToLower(strings.TrimSpace(req.SortBy)),
		SortDesc:        !strings.EqualFold(strings.TrimSpace(req.SortDir), "asc"),
		IncludeInactive: req.IncludeInactive,
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}
	// Unknown sort fields fall back to the default rather than failing.
	if !sortFields[opts.SortBy] {
		opts.SortBy = DefaultSort
	}
	return opts
}

func checkFloatRange(field string, r FloatRange) error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: min %s %v greater than max %v", ErrInvalidRange, field, *r.Min, *r.Max)
	}
	return nil
}

func checkIntRange(field string, r IntRange) error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: min %s %d greater than max %d", ErrInvalidRange, field, *r.Min, *r.Max)
	}
	return nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
