package listings

import "time"

// Status enumerates the lifecycle states of a listing.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusPending  Status = "PENDING"
	StatusSold     Status = "SOLD"
	StatusRented   Status = "RENTED"
	StatusInactive Status = "INACTIVE"
)

// ValidStatus reports whether s is one of the known listing states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusPending, StatusSold, StatusRented, StatusInactive:
		return true
	}
	return false
}

// Listing models a single property record.
type Listing struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`

	Title       string `json:"title"`
	Description string `json:"description"`

	PropertyType string `json:"propertyType"`
	ListingType  string `json:"listingType"`
	Status       Status `json:"status"`

	Price         float64 `json:"price"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`
	FloorArea     float64 `json:"floorArea"`
	LotSize       float64 `json:"lotSize"`
	YearBuilt     int     `json:"yearBuilt"`
	ParkingSpaces int     `json:"parkingSpaces"`
	HOAFee        float64 `json:"hoaFee"`
	TaxAmount     float64 `json:"taxAmount"`

	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	PostalCode   string   `json:"postalCode"`
	Neighborhood string   `json:"neighborhood"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	Features  []string `json:"features"`
	Amenities []string `json:"amenities"`

	Images    []string `json:"images"`
	Videos    []string `json:"videos"`
	Documents []string `json:"documents"`
	Tours     []string `json:"tours"`

	AgentID  string `json:"agentId"`
	AgencyID string `json:"agencyId"`

	Views int64 `json:"views"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Counts carries the engagement counters attached to listing projections.
type Counts struct {
	Favorites    int `json:"favorites"`
	Inquiries    int `json:"inquiries"`
	Reviews      int `json:"reviews"`
	Appointments int `json:"appointments"`
}

// Review is a single buyer/tenant review left on a listing.
type Review struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// PriceChange records one entry in a listing's price history.
type PriceChange struct {
	Price     float64   `json:"price"`
	ChangedAt time.Time `json:"changedAt"`
}
