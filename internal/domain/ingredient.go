package domain

// Ingredient is an owner-scoped ingredient that recipes reference.
// Same ownership model as Tag: names are scoped per user, not globally unique.
type Ingredient struct {
	Timestamps
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// RecipeIngredient links a recipe to one of its owner's ingredients.
type RecipeIngredient struct {
	RecipeID     string `json:"recipe_id"`
	IngredientID string `json:"ingredient_id"`
}
