package listings

// Summary is the lightweight projection used in search results.
type Summary struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	Title        string  `json:"title"`
	PropertyType string  `json:"propertyType"`
	ListingType  string  `json:"listingType"`
	Status       Status  `json:"status"`
	Price        float64 `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	FloorArea    float64 `json:"floorArea"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Neighborhood string  `json:"neighborhood"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Views        int64   `json:"views"`
	Counts       Counts  `json:"counts"`
}

// DetailView is the full, viewer-specific projection of a single listing.
type DetailView struct {
	Listing      Listing       `json:"listing"`
	IsFavorited  bool          `json:"isFavorited"`
	Counts       Counts        `json:"counts"`
	Reviews      []Review      `json:"reviews"`
	PriceHistory []PriceChange `json:"priceHistory"`
}

const (
	maxDetailReviews      = 10
	maxDetailPriceHistory = 20
)

// toSummary projects a listing record into its list-context view.
func toSummary(l Listing, counts Counts) Summary {
	s := Summary{
		ID:           l.ID,
		Slug:         l.Slug,
		Title:        l.Title,
		PropertyType: l.PropertyType,
		ListingType:  l.ListingType,
		Status:       l.Status,
		Price:        l.Price,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		FloorArea:    l.FloorArea,
		City:         l.City,
		State:        l.State,
		Neighborhood: l.Neighborhood,
		Views:        l.Views,
		Counts:       counts,
	}
	if len(l.Images) > 0 {
		s.ImageURL = l.Images[0]
	}
	return s
}

// toDetail projects a listing plus its fetched collections into the
// single-listing view. Reviews and price history are already ordered
// most-recent-first; the caps keep the payload bounded.
func toDetail(l Listing, counts Counts, reviews []Review, history []PriceChange, isFavorited bool) DetailView {
	if len(reviews) > maxDetailReviews {
		reviews = reviews[:maxDetailReviews]
	}
	if len(history) > maxDetailPriceHistory {
		history = history[:maxDetailPriceHistory]
	}
	return DetailView{
		Listing:      l,
		IsFavorited:  isFavorited,
		Counts:       counts,
		Reviews:      reviews,
		PriceHistory: history,
	}
}
