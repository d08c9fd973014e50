package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a recipe search query.
type SearchParams struct {
	UserID string // Required: results are always scoped to one owner
	Query  string // User's search text

	// Pagination
	Limit  int
	Offset int

	// Sorting: "relevance" (default), "title", "recent"
	SortBy    string
	SortOrder string // "asc", "desc"

	Highlight bool
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:     20,
		Offset:    0,
		SortBy:    "relevance",
		SortOrder: "desc",
		Highlight: true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID          string            `json:"id"`
	Score       float64           `json:"score"`
	Title       string            `json:"title"`
	TimeMinutes int               `json:"time_minutes,omitempty"`
	Price       float64           `json:"price,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query scoped to the params' user.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	addSorting(searchRequest, params)

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("tags")
		searchRequest.Highlight.AddField("ingredients")
	}

	searchRequest.Fields = []string{"id", "title", "time_minutes", "price"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if title, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = title
		}
		if tm, ok := hit.Fields["time_minutes"].(float64); ok {
			searchHit.TimeMinutes = int(tm)
		}
		if p, ok := hit.Fields["price"].(float64); ok {
			searchHit.Price = p
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
// The owner filter is a mandatory conjunct: no query ever crosses users.
func buildSearchQuery(params SearchParams) query.Query {
	userQuery := bleve.NewTermQuery(params.UserID)
	userQuery.SetField("user_id")

	if params.Query == "" {
		return bleve.NewConjunctionQuery(userQuery, bleve.NewMatchAllQuery())
	}

	textQueries := []query.Query{}

	// Title match with highest boost
	titleMatch := bleve.NewMatchQuery(params.Query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	textQueries = append(textQueries, titleMatch)

	// Tag and ingredient matches
	tagMatch := bleve.NewMatchQuery(params.Query)
	tagMatch.SetField("tags")
	tagMatch.SetBoost(1.5)
	textQueries = append(textQueries, tagMatch)

	ingredientMatch := bleve.NewMatchQuery(params.Query)
	ingredientMatch.SetField("ingredients")
	ingredientMatch.SetBoost(1.5)
	textQueries = append(textQueries, ingredientMatch)

	// Fuzzy matching for typo tolerance on title
	fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)
	textQueries = append(textQueries, fuzzyQuery)

	// Prefix query for autocomplete (minimum 2 chars)
	if len(params.Query) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
		prefixQuery.SetField("title")
		prefixQuery.SetBoost(0.5)
		textQueries = append(textQueries, prefixQuery)
	}

	return bleve.NewConjunctionQuery(userQuery, bleve.NewDisjunctionQuery(textQueries...))
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}
