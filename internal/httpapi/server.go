package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"homehound/internal/listings"
)

// ListingService captures the engine operations exposed over HTTP.
type ListingService interface {
	Search(ctx context.Context, req listings.SearchRequest) (*listings.SearchResult, error)
	GetDetail(ctx context.Context, id, viewerID string) (*listings.DetailView, error)
	Create(ctx context.Context, input listings.ListingInput, agentID string) (*listings.DetailView, error)
	Update(ctx context.Context, id string, input listings.ListingInput, actor listings.Actor) (*listings.DetailView, error)
	Delete(ctx context.Context, id string, actor listings.Actor) error
	GetSimilar(ctx context.Context, id string, limit int) ([]listings.Summary, error)
	GetAnalytics(ctx context.Context, id string) (*listings.AnalyticsView, error)
}

// Server wires HTTP handlers to the listing engine.
type Server struct {
	listings ListingService
}

// New configures a Server around the given engine.
func New(svc ListingService) *Server {
	return &Server{listings: svc}
}

// Routes exposes the HTTP handlers for listing search and management.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/v1/listings", s.handleSearch)
	mux.HandleFunc("POST /api/v1/listings", s.handleCreate)
	mux.HandleFunc("GET /api/v1/listings/{id}", s.handleGetDetail)
	mux.HandleFunc("PUT /api/v1/listings/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/v1/listings/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/v1/listings/{id}/similar", s.handleGetSimilar)
	mux.HandleFunc("GET /api/v1/listings/{id}/analytics", s.handleGetAnalytics)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps engine sentinels onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, listings.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "listing not found"})
	case errors.Is(err, listings.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not allowed"})
	case errors.Is(err, listings.ErrInvalidRange),
		errors.Is(err, listings.ErrInvalidGeoFilter),
		errors.Is(err, listings.ErrInvalidListing):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
