package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"homehound/internal/listings"
)

// Counts returns the engagement counters for a single listing.
func (s *Store) Counts(ctx context.Context, id string) (listings.Counts, error) {
	var counts listings.Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM favorites WHERE listing_id = $1),
			(SELECT COUNT(*) FROM inquiries WHERE listing_id = $1),
			(SELECT COUNT(*) FROM reviews WHERE listing_id = $1),
			(SELECT COUNT(*) FROM appointments WHERE listing_id = $1)
	`, id).Scan(&counts.Favorites, &counts.Inquiries, &counts.Reviews, &counts.Appointments)
	if err != nil {
		return listings.Counts{}, fmt.Errorf("count engagement: %w", err)
	}
	return counts, nil
}

// CountsFor returns the engagement counters for a batch of listings in
// one round trip. Listings without engagement are absent from the map.
func (s *Store) CountsFor(ctx context.Context, ids []string) (map[string]listings.Counts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id,
			COUNT(DISTINCT f.id),
			COUNT(DISTINCT i.id),
			COUNT(DISTINCT r.id),
			COUNT(DISTINCT a.id)
		FROM listings l
		LEFT JOIN favorites f ON f.listing_id = l.id
		LEFT JOIN inquiries i ON i.listing_id = l.id
		LEFT JOIN reviews r ON r.listing_id = l.id
		LEFT JOIN appointments a ON a.listing_id = l.id
		WHERE l.id = ANY($1)
		GROUP BY l.id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("count engagement batch: %w", err)
	}
	defer rows.Close()

	result := make(map[string]listings.Counts, len(ids))
	for rows.Next() {
		var (
			id     string
			counts listings.Counts
		)
		if err := rows.Scan(&id, &counts.Favorites, &counts.Inquiries, &counts.Reviews, &counts.Appointments); err != nil {
			return nil, fmt.Errorf("scan engagement: %w", err)
		}
		result[id] = counts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagement: %w", err)
	}
	return result, nil
}

// Reviews returns the most recent reviews for a listing, newest first.
func (s *Store) Reviews(ctx context.Context, id string, limit int) ([]listings.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author, rating, comment, created_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var reviews []listings.Review
	for rows.Next() {
		var r listings.Review
		if err := rows.Scan(&r.ID, &r.Author, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// PriceHistory returns the most recent price changes, newest first.
func (s *Store) PriceHistory(ctx context.Context, id string, limit int) ([]listings.PriceChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT price, changed_at
		FROM price_history
		WHERE listing_id = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("select price history: %w", err)
	}
	defer rows.Close()

	var history []listings.PriceChange
	for rows.Next() {
		var entry listings.PriceChange
		if err := rows.Scan(&entry.Price, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan price change: %w", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history: %w", err)
	}
	return history, nil
}

// IsFavorited reports whether the viewer has favorited the listing.
func (s *Store) IsFavorited(ctx context.Context, listingID, viewerID string) (bool, error) {
	var favorited bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE listing_id = $1 AND user_id = $2)
	`, listingID, viewerID).Scan(&favorited)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return favorited, nil
}

// IncrementViews bumps the persisted view counter by one.
func (s *Store) IncrementViews(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE listings SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
