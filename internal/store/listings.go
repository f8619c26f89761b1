package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"homehound/internal/listings"
)

const listingColumns = `id, slug, title, description, property_type, listing_type, status, price, bedrooms, bathrooms, floor_area, lot_size, year_built, parking_spaces, hoa_fee, tax_amount, address, city, state, postal_code, neighborhood, latitude, longitude, features, amenities, images, videos, documents, tours, agent_id, agency_id, views, created_at, updated_at`

// Count returns the number of listings matching the compiled criteria.
func (s *Store) Count(ctx context.Context, c listings.Criteria, box *listings.BoundingBox) (int, error) {
	where, args := buildWhere(c, box)

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return total, nil
}

// Find returns one sorted page of listings matching the compiled criteria.
func (s *Store) Find(ctx context.Context, c listings.Criteria, box *listings.BoundingBox, opts listings.SearchOptions) ([]listings.Listing, error) {
	where, args := buildWhere(c, box)

	dir := "ASC"
	if opts.SortDesc {
		dir = "DESC"
	}
	offset := (opts.Page - 1) * opts.Limit

	args = append(args, opts.Limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM listings%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		listingColumns, where, sortColumn(opts.SortBy), dir, len(args)-1, len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select listings: %w", err)
	}
	defer rows.Close()

	records, err := scanListingRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return records, nil
}

// FindByID returns a single listing by its identifier.
func (s *Store) FindByID(ctx context.Context, id string) (listings.Listing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)

	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return listings.Listing{}, listings.ErrNotFound
		}
		return listings.Listing{}, fmt.Errorf("select listing: %w", err)
	}
	return listing, nil
}

// Create inserts a new listing record.
func (s *Store) Create(ctx context.Context, l listings.Listing) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34)
	`,
		l.ID, l.Slug, l.Title, l.Description, l.PropertyType, l.ListingType, string(l.Status),
		l.Price, l.Bedrooms, l.Bathrooms, l.FloorArea, l.LotSize, l.YearBuilt, l.ParkingSpaces, l.HOAFee, l.TaxAmount,
		l.Address, l.City, l.State, l.PostalCode, l.Neighborhood, nullFloat(l.Latitude), nullFloat(l.Longitude),
		pq.Array(l.Features), pq.Array(l.Amenities), pq.Array(l.Images), pq.Array(l.Videos), pq.Array(l.Documents), pq.Array(l.Tours),
		l.AgentID, l.AgencyID, l.Views, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing listing.
func (s *Store) Update(ctx context.Context, l listings.Listing) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE listings
		SET slug = $2, title = $3, description = $4, property_type = $5, listing_type = $6, status = $7,
			price = $8, bedrooms = $9, bathrooms = $10, floor_area = $11, lot_size = $12, year_built = $13,
			parking_spaces = $14, hoa_fee = $15, tax_amount = $16, address = $17, city = $18, state = $19,
			postal_code = $20, neighborhood = $21, latitude = $22, longitude = $23, features = $24,
			amenities = $25, images = $26, videos = $27, documents = $28, tours = $29, updated_at = $30
		WHERE id = $1
	`,
		l.ID, l.Slug, l.Title, l.Description, l.PropertyType, l.ListingType, string(l.Status),
		l.Price, l.Bedrooms, l.Bathrooms, l.FloorArea, l.LotSize, l.YearBuilt, l.ParkingSpaces, l.HOAFee, l.TaxAmount,
		l.Address, l.City, l.State, l.PostalCode, l.Neighborhood, nullFloat(l.Latitude), nullFloat(l.Longitude),
		pq.Array(l.Features), pq.Array(l.Amenities), pq.Array(l.Images), pq.Array(l.Videos), pq.Array(l.Documents), pq.Array(l.Tours),
		l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return requireRow(res)
}

// Delete removes a listing record.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return requireRow(res)
}

// SlugExists reports whether any listing already uses the slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM listings WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// buildWhere assembles the filter clause from the criteria in a fixed
// field order, so generated SQL stays deterministic for a given filter.
func buildWhere(c listings.Criteria, box *listings.BoundingBox) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if c.PropertyType != "" {
		add("property_type = $%d", c.PropertyType)
	}
	if c.ListingType != "" {
		add("listing_type = $%d", c.ListingType)
	}
	if c.Status != "" {
		add("status = $%d", string(c.Status))
	} else if c.ExcludeInactive {
		add("status <> $%d", string(listings.StatusInactive))
	}

	if c.Price.Min != nil {
		add("price >= $%d", *c.Price.Min)
	}
	if c.Price.Max != nil {
		add("price <= $%d", *c.Price.Max)
	}
	if c.Bedrooms.Min != nil {
		add("bedrooms >= $%d", *c.Bedrooms.Min)
	}
	if c.Bedrooms.Max != nil {
		add("bedrooms <= $%d", *c.Bedrooms.Max)
	}
	if c.Bathrooms.Min != nil {
		add("bathrooms >= $%d", *c.Bathrooms.Min)
	}
	if c.Bathrooms.Max != nil {
		add("bathrooms <= $%d", *c.Bathrooms.Max)
	}
	if c.FloorArea.Min != nil {
		add("floor_area >= $%d", *c.FloorArea.Min)
	}
	if c.FloorArea.Max != nil {
		add("floor_area <= $%d", *c.FloorArea.Max)
	}
	if c.YearBuilt.Min != nil {
		add("year_built >= $%d", *c.YearBuilt.Min)
	}
	if c.YearBuilt.Max != nil {
		add("year_built <= $%d", *c.YearBuilt.Max)
	}

	if c.City != "" {
		add("city ILIKE $%d", like(c.City))
	}
	if c.State != "" {
		add("state ILIKE $%d", like(c.State))
	}
	if c.Neighborhood != "" {
		add("neighborhood ILIKE $%d", like(c.Neighborhood))
	}
	if c.Query != "" {
		args = append(args, like(c.Query))
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR address ILIKE $%d OR city ILIKE $%d OR neighborhood ILIKE $%d)",
			n, n, n, n, n,
		))
	}

	if len(c.Features) > 0 {
		add("features && $%d", pq.Array(c.Features))
	}
	if len(c.Amenities) > 0 {
		add("amenities && $%d", pq.Array(c.Amenities))
	}

	if c.AgentID != "" {
		add("agent_id = $%d", c.AgentID)
	}
	if c.AgencyID != "" {
		add("agency_id = $%d", c.AgencyID)
	}

	if box != nil {
		args = append(args, box.LatMin, box.LatMax)
		clauses = append(clauses, fmt.Sprintf("latitude BETWEEN $%d AND $%d", len(args)-1, len(args)))
		args = append(args, box.LonMin, box.LonMax)
		clauses = append(clauses, fmt.Sprintf("longitude BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// sortColumn maps a compiled sort field onto its column. The compiler
// only emits allow-listed fields; anything else becomes the default.
func sortColumn(field string) string {
	switch field {
	case "price", "bedrooms", "bathrooms", "floor_area", "year_built", "views", "created_at":
		return field
	default:
		return listings.DefaultSort
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (listings.Listing, error) {
	var (
		l        listings.Listing
		status   string
		lat, lon sql.NullFloat64
	)
	err := row.Scan(
		&l.ID, &l.Slug, &l.Title, &l.Description, &l.PropertyType, &l.ListingType, &status,
		&l.Price, &l.Bedrooms, &l.Bathrooms, &l.FloorArea, &l.LotSize, &l.YearBuilt, &l.ParkingSpaces, &l.HOAFee, &l.TaxAmount,
		&l.Address, &l.City, &l.State, &l.PostalCode, &l.Neighborhood, &lat, &lon,
		pq.Array(&l.Features), pq.Array(&l.Amenities), pq.Array(&l.Images), pq.Array(&l.Videos), pq.Array(&l.Documents), pq.Array(&l.Tours),
		&l.AgentID, &l.AgencyID, &l.Views, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return listings.Listing{}, err
	}

	l.Status = listings.Status(status)
	if lat.Valid {
		l.Latitude = &lat.Float64
	}
	if lon.Valid {
		l.Longitude = &lon.Float64
	}
	return l, nil
}

func scanListingRows(rows *sql.Rows) ([]listings.Listing, error) {
	var records []listings.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		records = append(records, l)
	}
	return records, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return listings.ErrNotFound
	}
	return nil
}

func like(value string) string {
	return "%" + value + "%"
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
