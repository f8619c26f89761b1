package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"homehound/internal/listings"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name     string
		criteria listings.Criteria
		box      *listings.BoundingBox
		want     string
		wantArgs int
	}{
		{
			name: "empty criteria",
			want: "",
		},
		{
			name:     "forced inactive exclusion",
			criteria: listings.Criteria{ExcludeInactive: true},
			want:     " WHERE status <> $1",
			wantArgs: 1,
		},
		{
			name:     "explicit status wins over exclusion",
			criteria: listings.Criteria{Status: listings.StatusSold, ExcludeInactive: true},
			want:     " WHERE status = $1",
			wantArgs: 1,
		},
		{
			name: "price band",
			criteria: listings.Criteria{
				Price: listings.FloatRange{Min: floatPtr(100), Max: floatPtr(200)},
			},
			want:     " WHERE price >= $1 AND price <= $2",
			wantArgs: 2,
		},
		{
			name:     "free text query fans out",
			criteria: listings.Criteria{Query: "garden"},
			want:     " WHERE (title ILIKE $1 OR description ILIKE $1 OR address ILIKE $1 OR city ILIKE $1 OR neighborhood ILIKE $1)",
			wantArgs: 1,
		},
		{
			name:     "tag overlap",
			criteria: listings.Criteria{Features: []string{"pool", "garage"}},
			want:     " WHERE features && $1",
			wantArgs: 1,
		},
		{
			name: "bounding box",
			box:  &listings.BoundingBox{LatMin: 1, LatMax: 2, LonMin: 3, LonMax: 4},
			want: " WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4",
			wantArgs: 4,
		},
		{
			name: "mixed filters keep field order",
			criteria: listings.Criteria{
				PropertyType: "house",
				City:         "Springfield",
				Bedrooms:     listings.IntRange{Min: intPtr(2)},
			},
			want:     " WHERE property_type = $1 AND bedrooms >= $2 AND city ILIKE $3",
			wantArgs: 3,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			where, args := buildWhere(tc.criteria, tc.box)
			if where != tc.want {
				t.Fatalf("where = %q, want %q", where, tc.want)
			}
			if len(args) != tc.wantArgs {
				t.Fatalf("got %d args, want %d", len(args), tc.wantArgs)
			}
		})
	}
}

func listingRowColumns() []string {
	return []string{
		"id", "slug", "title", "description", "property_type", "listing_type", "status",
		"price", "bedrooms", "bathrooms", "floor_area", "lot_size", "year_built", "parking_spaces", "hoa_fee", "tax_amount",
		"address", "city", "state", "postal_code", "neighborhood", "latitude", "longitude",
		"features", "amenities", "images", "videos", "documents", "tours",
		"agent_id", "agency_id", "views", "created_at", "updated_at",
	}
}

func addListingRow(rows *sqlmock.Rows, id string) *sqlmock.Rows {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "cozy-loft", "Cozy Loft", "A lovely loft", "apartment", "sale", "ACTIVE",
		450000.0, 2, 1, 900.0, 0.0, 1998, 1, 250.0, 4100.0,
		"12 Main St", "Springfield", "IL", "62701", "Downtown", 39.78, -89.65,
		"{pool}", "{gym}", "{https://img/1.jpg}", "{}", "{}", "{}",
		"agent-1", "agency-1", int64(17), now, now,
	)
}

func TestCountWithFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COUNT(*) FROM listings WHERE price >= $1 AND price <= $2`,
	)).
		WithArgs(100000.0, 500000.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := s.Count(context.Background(), listings.Criteria{
		Price: listings.FloatRange{Min: floatPtr(100000), Max: floatPtr(500000)},
	}, nil)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if total != 7 {
		t.Fatalf("total = %d, want 7", total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindAppliesPagingAndSort(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT `+listingColumns+` FROM listings WHERE city ILIKE $1 ORDER BY price ASC, id ASC LIMIT $2 OFFSET $3`,
	)).
		WithArgs("%Springfield%", 10, 10).
		WillReturnRows(addListingRow(sqlmock.NewRows(listingRowColumns()), "l1"))

	got, err := s.Find(context.Background(), listings.Criteria{City: "Springfield"}, nil, listings.SearchOptions{
		Page:   2,
		Limit:  10,
		SortBy: "price",
	})
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d listings, want 1", len(got))
	}

	l := got[0]
	if l.Status != listings.StatusActive {
		t.Fatalf("status = %q, want ACTIVE", l.Status)
	}
	if l.Latitude == nil || *l.Latitude != 39.78 {
		t.Fatalf("latitude = %v, want 39.78", l.Latitude)
	}
	if len(l.Features) != 1 || l.Features[0] != "pool" {
		t.Fatalf("features = %v, want [pool]", l.Features)
	}
	if l.Views != 17 {
		t.Fatalf("views = %d, want 17", l.Views)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`,
	)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = s.FindByID(context.Background(), "missing")
	if !errors.Is(err, listings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM listings WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, listings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIncrementViews(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE listings SET views = views + 1 WHERE id = $1`)).
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.IncrementViews(context.Background(), "l1"); err != nil {
		t.Fatalf("IncrementViews error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIsFavorited(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM favorites WHERE listing_id = $1 AND user_id = $2)
	`)).
		WithArgs("l1", "viewer-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	favorited, err := s.IsFavorited(context.Background(), "l1", "viewer-1")
	if err != nil {
		t.Fatalf("IsFavorited error: %v", err)
	}
	if !favorited {
		t.Fatal("expected favorited = true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
