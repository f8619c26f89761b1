package listings

import (
	"math"
	"time"
)

// AnalyticsView carries derived metrics for a single listing. Time-series
// fields (views over the trailing month, conversion rate, market
// comparison) belong to an external analytics collaborator; this engine
// reports zero for them rather than fabricating values.
type AnalyticsView struct {
	ListingID       string   `json:"listingId"`
	DaysOnMarket    int      `json:"daysOnMarket"`
	PricePerSqft    *float64 `json:"pricePerSqft,omitempty"`
	Views           int64    `json:"views"`
	Favorites       int      `json:"favorites"`
	Inquiries       int      `json:"inquiries"`
	Reviews         int      `json:"reviews"`
	Appointments    int      `json:"appointments"`
	ViewsLast30Days int64    `json:"viewsLast30Days"`
	ConversionRate  float64  `json:"conversionRate"`
}

// buildAnalytics computes the listing-level metrics this engine owns.
func buildAnalytics(l Listing, counts Counts, now time.Time) AnalyticsView {
	view := AnalyticsView{
		ListingID:    l.ID,
		DaysOnMarket: int(now.Sub(l.CreatedAt).Hours() / 24),
		Views:        l.Views,
		Favorites:    counts.Favorites,
		Inquiries:    counts.Inquiries,
		Reviews:      counts.Reviews,
		Appointments: counts.Appointments,
	}
	if view.DaysOnMarket < 0 {
		view.DaysOnMarket = 0
	}
	if l.FloorArea > 0 {
		perSqft := math.Floor(l.Price / l.FloorArea)
		view.PricePerSqft = &perSqft
	}
	return view
}
