package listings

import "sort"

const (
	// DefaultSimilarLimit bounds GetSimilar when the caller gives none.
	DefaultSimilarLimit = 6

	// similarPriceBand is the allowed fraction above/below the reference price.
	similarPriceBand = 0.20

	// similarCandidatePool is how many pre-filtered rows the matcher ranks.
	similarCandidatePool = 50
)

// similarPriceRange returns the inclusive price band around a reference price.
func similarPriceRange(price float64) (min, max float64) {
	return price * (1 - similarPriceBand), price * (1 + similarPriceBand)
}

// isComparable applies the location heuristic on top of the repository
// pre-filter: same city, same postal code, or identical bed+bath counts.
func isComparable(ref, candidate Listing) bool {
	if candidate.ID == ref.ID || candidate.Status != StatusActive {
		return false
	}
	if candidate.PropertyType != ref.PropertyType {
		return false
	}
	minPrice, maxPrice := similarPriceRange(ref.Price)
	if candidate.Price < minPrice || candidate.Price > maxPrice {
		return false
	}
	switch {
	case candidate.City != "" && candidate.City == ref.City:
		return true
	case candidate.PostalCode != "" && candidate.PostalCode == ref.PostalCode:
		return true
	default:
		return candidate.Bedrooms == ref.Bedrooms && candidate.Bathrooms == ref.Bathrooms
	}
}

// rankSimilar filters candidates against the reference and orders them:
// same-city listings first, then most recently created.
func rankSimilar(ref Listing, candidates []Listing, limit int) []Listing {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	matched := make([]Listing, 0, len(candidates))
	for _, c := range candidates {
		if isComparable(ref, c) {
			matched = append(matched, c)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		iSameCity := matched[i].City == ref.City
		jSameCity := matched[j].City == ref.City
		if iSameCity != jSameCity {
			return iSameCity
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}
