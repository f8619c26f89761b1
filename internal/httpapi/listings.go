package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"homehound/internal/listings"
	"homehound/internal/middleware"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.listings.Search(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetDetail(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if actor, ok := middleware.ActorFrom(r.Context()); ok {
		viewerID = actor.ID
	}

	view, err := s.listings.GetDetail(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	var input listings.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	view, err := s.listings.Create(r.Context(), input, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	var input listings.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	view, err := s.listings.Update(r.Context(), r.PathValue("id"), input, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	if err := s.listings.Delete(r.Context(), r.PathValue("id"), actor); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSimilar(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	summaries, err := s.listings.GetSimilar(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Listings []listings.Summary `json:"listings"`
	}{Listings: summaries})
}

func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	view, err := s.listings.GetAnalytics(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// searchRequestFromQuery maps URL query parameters onto the raw search
// request. Malformed numbers are rejected rather than silently dropped.
func searchRequestFromQuery(values url.Values) (listings.SearchRequest, error) {
	req := listings.SearchRequest{
		PropertyType: values.Get("type"),
		ListingType:  values.Get("listing_type"),
		Status:       values.Get("status"),
		City:         values.Get("city"),
		State:        values.Get("state"),
		Neighborhood: values.Get("neighborhood"),
		Query:        values.Get("q"),
		AgentID:      values.Get("agent_id"),
		AgencyID:     values.Get("agency_id"),
		SortBy:       values.Get("sort"),
		SortDir:      values.Get("order"),
	}

	var err error
	if req.MinPrice, err = queryFloat(values, "min_price"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MaxPrice, err = queryFloat(values, "max_price"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MinBedrooms, err = queryInt(values, "min_bedrooms"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MaxBedrooms, err = queryInt(values, "max_bedrooms"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MinBathrooms, err = queryInt(values, "min_bathrooms"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MaxBathrooms, err = queryInt(values, "max_bathrooms"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MinFloorArea, err = queryFloat(values, "min_floor_area"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MaxFloorArea, err = queryFloat(values, "max_floor_area"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MinYearBuilt, err = queryInt(values, "min_year_built"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.MaxYearBuilt, err = queryInt(values, "max_year_built"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.Latitude, err = queryFloat(values, "lat"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.Longitude, err = queryFloat(values, "lng"); err != nil {
		return listings.SearchRequest{}, err
	}
	if req.Radius, err = queryFloat(values, "radius"); err != nil {
		return listings.SearchRequest{}, err
	}

	req.Features = splitList(values.Get("features"))
	req.Amenities = splitList(values.Get("amenities"))

	if raw := values.Get("page"); raw != "" {
		req.Page, _ = strconv.Atoi(raw)
	}
	if raw := values.Get("limit"); raw != "" {
		req.Limit, _ = strconv.Atoi(raw)
	}
	req.IncludeInactive = values.Get("include_inactive") == "true"

	return req, nil
}

func queryFloat(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &parsed, nil
}

func queryInt(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &parsed, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
