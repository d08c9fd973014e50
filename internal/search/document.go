// Package search provides full-text recipe search using Bleve.
// Tag and ingredient names are denormalized into recipe documents so a
// single query covers everything a recipe is made of.
package search

import (
	"github.com/ladleapp/ladle-server/internal/domain"
)

// RecipeDocument is the document structure for the Bleve index.
// UserID is indexed as a keyword so every query can be scoped to its owner.
type RecipeDocument struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Title string `json:"title"`
	Link  string `json:"link,omitempty"`

	// Denormalized for search; the store owns the canonical links.
	Tags        []string `json:"tags,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`

	TimeMinutes int     `json:"time_minutes,omitempty"`
	Price       float64 `json:"price,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *RecipeDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Link != "" {
		m["link"] = d.Link
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.Ingredients) > 0 {
		m["ingredients"] = d.Ingredients
	}
	if d.TimeMinutes > 0 {
		m["time_minutes"] = d.TimeMinutes
	}
	if d.Price > 0 {
		m["price"] = d.Price
	}

	return m
}

// RecipeToDocument converts a domain Recipe to a RecipeDocument.
// Tag and ingredient names must be provided by the caller; the search
// package does not depend on the store.
func RecipeToDocument(r *domain.Recipe, tagNames, ingredientNames []string) *RecipeDocument {
	return &RecipeDocument{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Link:        r.Link,
		Tags:        tagNames,
		Ingredients: ingredientNames,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
	}
}
