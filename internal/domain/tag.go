package domain

// Tag is a user-defined label for categorizing recipes.
// Tags are owner-scoped: two users can each have a "Vegan" tag and neither
// ever sees the other's.
type Tag struct {
	Timestamps
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// RecipeTag represents the many-to-many relationship between recipes and tags.
// The (recipe_id, tag_id) pair is unique; both sides belong to the same user.
type RecipeTag struct {
	RecipeID string `json:"recipe_id"`
	TagID    string `json:"tag_id"`
}
