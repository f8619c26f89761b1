package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homehound/internal/listings"
	"homehound/internal/store"
)

// seedDemoListings inserts a handful of demo properties on first boot so a
// fresh instance has something to search. It is a no-op once any listing
// exists or when the schema has not been migrated yet.
func seedDemoListings(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	exists, err := tableExists(ctx, db, "listings")
	if err != nil {
		return fmt.Errorf("check listings table: %w", err)
	}
	if !exists {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count); err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if count > 0 {
		return nil
	}

	floatPtr := func(v float64) *float64 { return &v }
	now := time.Now().UTC()

	demo := []listings.Listing{
		{
			Title:        "Sunny 2BR Apartment in Riverside",
			Description:  "Bright corner unit with river views and a renovated kitchen.",
			PropertyType: "apartment",
			ListingType:  "sale",
			Price:        325000,
			Bedrooms:     2,
			Bathrooms:    1,
			FloorArea:    870,
			YearBuilt:    1998,
			Address:      "14 Riverside Dr",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62704",
			Neighborhood: "Riverside",
			Latitude:     floatPtr(39.7817),
			Longitude:    floatPtr(-89.6501),
			Features:     []string{"balcony", "hardwood floors"},
			Amenities:    []string{"elevator", "gym"},
			Images:       []string{"https://cdn.example.com/demo/riverside-1.jpg"},
		},
		{
			Title:        "Modern 4BR Family House with Pool",
			Description:  "Spacious two-story home on a quiet cul-de-sac, heated pool and large garden.",
			PropertyType: "house",
			ListingType:  "sale",
			Price:        689000,
			Bedrooms:     4,
			Bathrooms:    3,
			FloorArea:    2450,
			LotSize:      7200,
			YearBuilt:    2015,
			ParkingSpaces: 2,
			Address:      "82 Maple Ct",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62711",
			Neighborhood: "Westchase",
			Latitude:     floatPtr(39.7563),
			Longitude:    floatPtr(-89.7221),
			Features:     []string{"pool", "garage", "garden"},
			Amenities:    []string{"central air"},
			Images:       []string{"https://cdn.example.com/demo/maple-1.jpg"},
		},
		{
			Title:        "Downtown Studio for Rent",
			Description:  "Compact studio steps from the transit hub, utilities included.",
			PropertyType: "apartment",
			ListingType:  "rent",
			Price:        1150,
			Bedrooms:     0,
			Bathrooms:    1,
			FloorArea:    420,
			YearBuilt:    2008,
			Address:      "301 Capitol Ave",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62701",
			Neighborhood: "Downtown",
			Latitude:     floatPtr(39.7990),
			Longitude:    floatPtr(-89.6440),
			Amenities:    []string{"laundry", "doorman"},
			Images:       []string{"https://cdn.example.com/demo/capitol-1.jpg"},
		},
	}

	for _, l := range demo {
		l.ID = uuid.NewString()
		l.Slug = listings.Slugify(l.Title)
		l.Status = listings.StatusActive
		l.AgentID = "demo-agent"
		l.AgencyID = "demo-agency"
		l.CreatedAt = now
		l.UpdatedAt = now
		if err := dataStore.Create(ctx, l); err != nil {
			return fmt.Errorf("seed listing %q: %w", l.Title, err)
		}
	}

	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	)`, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
