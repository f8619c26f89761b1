package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Repository captures the persistence operations the engine needs. The
// count and find queries are independent and may run concurrently.
type Repository interface {
	Count(ctx context.Context, c Criteria, box *BoundingBox) (int, error)
	Find(ctx context.Context, c Criteria, box *BoundingBox, opts SearchOptions) ([]Listing, error)
	FindByID(ctx context.Context, id string) (Listing, error)
	Create(ctx context.Context, l Listing) error
	Update(ctx context.Context, l Listing) error
	Delete(ctx context.Context, id string) error

	Counts(ctx context.Context, id string) (Counts, error)
	CountsFor(ctx context.Context, ids []string) (map[string]Counts, error)
	Reviews(ctx context.Context, id string, limit int) ([]Review, error)
	PriceHistory(ctx context.Context, id string, limit int) ([]PriceChange, error)
	IsFavorited(ctx context.Context, listingID, viewerID string) (bool, error)
	IncrementViews(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Cache stores detail views per (listing, viewer) pair. Implementations
// return ErrCacheMiss when no entry exists; any other failure is treated
// as a miss by the engine and never surfaced.
type Cache interface {
	GetDetail(ctx context.Context, listingID, viewerKey string) (*DetailView, error)
	SetDetail(ctx context.Context, listingID, viewerKey string, view *DetailView, ttl time.Duration) error
	Invalidate(ctx context.Context, listingID string) error
}

// DefaultDetailTTL bounds how long a cached detail view is served.
const DefaultDetailTTL = 300 * time.Second

// anonymousViewer keys cache entries for unauthenticated detail fetches.
const anonymousViewer = "anon"

// SearchResult is one page of summaries plus the paging facts derived
// from the total match count.
type SearchResult struct {
	Listings        []Summary `json:"listings"`
	Total           int       `json:"total"`
	Page            int       `json:"page"`
	Limit           int       `json:"limit"`
	TotalPages      int       `json:"totalPages"`
	HasNextPage     bool      `json:"hasNextPage"`
	HasPreviousPage bool      `json:"hasPreviousPage"`
}

// ListingInput carries the caller-supplied fields for create and update.
type ListingInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	PropertyType  string   `json:"propertyType"`
	ListingType   string   `json:"listingType"`
	Status        Status   `json:"status"`
	Price         float64  `json:"price"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	FloorArea     float64  `json:"floorArea"`
	LotSize       float64  `json:"lotSize"`
	YearBuilt     int      `json:"yearBuilt"`
	ParkingSpaces int      `json:"parkingSpaces"`
	HOAFee        float64  `json:"hoaFee"`
	TaxAmount     float64  `json:"taxAmount"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	PostalCode    string   `json:"postalCode"`
	Neighborhood  string   `json:"neighborhood"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Features      []string `json:"features"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	Videos        []string `json:"videos"`
	Documents     []string `json:"documents"`
	Tours         []string `json:"tours"`
	AgencyID      string   `json:"agencyId"`
}

// Service is the property search, caching and recommendation engine.
// It owns no state beyond the injected collaborators; construct one at
// process start and share it across request handlers.
type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewService builds the engine. cache may be nil, in which case every
// detail fetch recomputes. A non-positive ttl selects DefaultDetailTTL.
func NewService(repo Repository, cache Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultDetailTTL
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Search compiles the raw request and runs the count and page queries
// concurrently against the repository.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	criteria, opts, err := Compile(req)
	if err != nil {
		return nil, err
	}
	criteria.ExcludeInactive = criteria.Status == "" && !opts.IncludeInactive

	var box *BoundingBox
	if criteria.Geo != nil {
		b := BoundsFor(*criteria.Geo)
		box = &b
	}

	var (
		total   int
		records []Listing
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gCtx, criteria, box)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.repo.Find(gCtx, criteria, box, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	summaries, err := s.summarize(ctx, records)
	if err != nil {
		return nil, err
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit

	return &SearchResult{
		Listings:        summaries,
		Total:           total,
		Page:            opts.Page,
		Limit:           opts.Limit,
		TotalPages:      totalPages,
		HasNextPage:     opts.Page < totalPages,
		HasPreviousPage: opts.Page > 1,
	}, nil
}

// GetDetail returns the viewer-specific detail view, served from cache
// when a fresh entry exists. On a miss the view counter is bumped
// without blocking the response.
func (s *Service) GetDetail(ctx context.Context, id, viewerID string) (*DetailView, error) {
	viewerKey := viewerID
	if viewerKey == "" {
		viewerKey = anonymousViewer
	}

	if s.cache != nil {
		cached, err := s.cache.GetDetail(ctx, id, viewerKey)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("listing_id", id).Msg("detail cache read")
		}
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view, err := s.assembleDetail(ctx, listing, viewerID)
	if err != nil {
		return nil, err
	}

	s.bumpViews(id)

	if s.cache != nil {
		if err := s.cache.SetDetail(ctx, id, viewerKey, view, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("listing_id", id).Msg("detail cache write")
		}
	}

	return view, nil
}

// Create validates the payload and stores a new listing owned by agentID.
func (s *Service) Create(ctx context.Context, input ListingInput, agentID string) (*DetailView, error) {
	listing, err := s.buildListing(ctx, input, agentID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	view := toDetail(listing, Counts{}, nil, nil, false)
	return &view, nil
}

// Update authorizes the actor, applies the payload, and invalidates the
// detail cache before returning so later reads never observe stale data.
func (s *Service) Update(ctx context.Context, id string, input ListingInput, actor Actor) (*DetailView, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, current) {
		return nil, ErrForbidden
	}

	updated, err := s.applyInput(ctx, current, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	s.invalidate(ctx, id)

	return s.assembleDetail(ctx, updated, actor.ID)
}

// Delete authorizes the actor, removes the listing, and drops its cache
// entries.
func (s *Service) Delete(ctx context.Context, id string, actor Actor) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(actor, current) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	s.invalidate(ctx, id)
	return nil
}

// GetSimilar returns up to limit active listings comparable to the
// reference: same property type, price within the band, and a matching
// location heuristic. Same-city matches rank first.
func (s *Service) GetSimilar(ctx context.Context, id string, limit int) ([]Summary, error) {
	ref, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	minPrice, maxPrice := similarPriceRange(ref.Price)
	criteria := Criteria{
		PropertyType: ref.PropertyType,
		Status:       StatusActive,
		Price:        FloatRange{Min: &minPrice, Max: &maxPrice},
	}
	opts := SearchOptions{
		Page:   1,
		Limit:  similarCandidatePool,
		SortBy: DefaultSort,
		// Newest first so ranking ties resolve without a second fetch.
		SortDesc: true,
	}

	candidates, err := s.repo.Find(ctx, criteria, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("find similar listings: %w", err)
	}

	return s.summarize(ctx, rankSimilar(ref, candidates, limit))
}

// GetAnalytics reports the derived metrics for a single listing.
func (s *Service) GetAnalytics(ctx context.Context, id string) (*AnalyticsView, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Counts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing counts: %w", err)
	}
	view := buildAnalytics(listing, counts, s.now())
	return &view, nil
}

func (s *Service) summarize(ctx context.Context, records []Listing) ([]Summary, error) {
	summaries := make([]Summary, 0, len(records))
	if len(records) == 0 {
		return summaries, nil
	}

	ids := make([]string, len(records))
	for i, l := range records {
		ids[i] = l.ID
	}
	counts, err := s.repo.CountsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing counts: %w", err)
	}

	for _, l := range records {
		summaries = append(summaries, toSummary(l, counts[l.ID]))
	}
	return summaries, nil
}

func (s *Service) assembleDetail(ctx context.Context, l Listing, viewerID string) (*DetailView, error) {
	counts, err := s.repo.Counts(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("listing counts: %w", err)
	}
	reviews, err := s.repo.Reviews(ctx, l.ID, maxDetailReviews)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	history, err := s.repo.PriceHistory(ctx, l.ID, maxDetailPriceHistory)
	if err != nil {
		return nil, fmt.Errorf("listing price history: %w", err)
	}

	favorited := false
	if viewerID != "" {
		favorited, err = s.repo.IsFavorited(ctx, l.ID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("favorite status: %w", err)
		}
	}

	view := toDetail(l, counts, reviews, history, favorited)
	return &view, nil
}

// bumpViews increments the persisted view counter without blocking the
// response path. Every uncached view counts; concurrent misses are not
// deduplicated.
func (s *Service) bumpViews(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("listing_id", id).Msg("increment views")
		}
	}()
}

// invalidate drops every viewer's cached detail for the listing. Cache
// failures never abort the surrounding mutation.
func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("listing_id", id).Msg("detail cache invalidate")
	}
}

func (s *Service) buildListing(ctx context.Context, input ListingInput, agentID string) (Listing, error) {
	if err := validateInput(input); err != nil {
		return Listing{}, err
	}
	if agentID == "" {
		return Listing{}, fmt.Errorf("%w: agent id is required", ErrInvalidListing)
	}

	status := input.Status
	if status == "" {
		status = StatusActive
	}

	now := s.now().UTC()
	listing := Listing{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		PropertyType:  input.PropertyType,
		ListingType:   input.ListingType,
		Status:        status,
		Price:         input.Price,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		FloorArea:     input.FloorArea,
		LotSize:       input.LotSize,
		YearBuilt:     input.YearBuilt,
		ParkingSpaces: input.ParkingSpaces,
		HOAFee:        input.HOAFee,
		TaxAmount:     input.TaxAmount,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		PostalCode:    input.PostalCode,
		Neighborhood:  input.Neighborhood,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Features:      trimAll(input.Features),
		Amenities:     trimAll(input.Amenities),
		Images:        input.Images,
		Videos:        input.Videos,
		Documents:     input.Documents,
		Tours:         input.Tours,
		AgentID:       agentID,
		AgencyID:      input.AgencyID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	slug, err := s.uniqueSlug(ctx, listing.Title)
	if err != nil {
		return Listing{}, err
	}
	listing.Slug = slug

	return listing, nil
}

func (s *Service) applyInput(ctx context.Context, current Listing, input ListingInput) (Listing, error) {
	if err := validateInput(input); err != nil {
		return Listing{}, err
	}

	updated := current
	updated.Title = strings.TrimSpace(input.Title)
	updated.Description = input.Description
	updated.PropertyType = input.PropertyType
	updated.ListingType = input.ListingType
	if input.Status != "" {
		updated.Status = input.Status
	}
	updated.Price = input.Price
	updated.Bedrooms = input.Bedrooms
	updated.Bathrooms = input.Bathrooms
	updated.FloorArea = input.FloorArea
	updated.LotSize = input.LotSize
	updated.YearBuilt = input.YearBuilt
	updated.ParkingSpaces = input.ParkingSpaces
	updated.HOAFee = input.HOAFee
	updated.TaxAmount = input.TaxAmount
	updated.Address = input.Address
	updated.City = input.City
	updated.State = input.State
	updated.PostalCode = input.PostalCode
	updated.Neighborhood = input.Neighborhood
	updated.Latitude = input.Latitude
	updated.Longitude = input.Longitude
	updated.Features = trimAll(input.Features)
	updated.Amenities = trimAll(input.Amenities)
	updated.Images = input.Images
	updated.Videos = input.Videos
	updated.Documents = input.Documents
	updated.Tours = input.Tours
	updated.UpdatedAt = s.now().UTC()

	if updated.Title != current.Title {
		slug, err := s.uniqueSlug(ctx, updated.Title)
		if err != nil {
			return Listing{}, err
		}
		updated.Slug = slug
	}

	return updated, nil
}

// uniqueSlug derives the title slug, suffixing a short random fragment
// when the slug is already taken.
func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		slug = "listing"
	}

	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if !taken {
		return slug, nil
	}
	return slug + "-" + uuid.NewString()[:8], nil
}

func validateInput(input ListingInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidListing)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidListing)
	}
	if input.Bedrooms < 0 || input.Bathrooms < 0 {
		return fmt.Errorf("%w: bedrooms and bathrooms must be non-negative", ErrInvalidListing)
	}
	if input.FloorArea < 0 || input.LotSize < 0 {
		return fmt.Errorf("%w: floor area and lot size must be non-negative", ErrInvalidListing)
	}
	if input.Status != "" && !ValidStatus(input.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidListing, input.Status)
	}
	if input.Latitude != nil && (*input.Latitude < -90 || *input.Latitude > 90) {
		return fmt.Errorf("%w: latitude out of bounds", ErrInvalidListing)
	}
	if input.Longitude != nil && (*input.Longitude < -180 || *input.Longitude > 180) {
		return fmt.Errorf("%w: longitude out of bounds", ErrInvalidListing)
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be given together", ErrInvalidListing)
	}
	return nil
}
