package domain

// Recipe is the central entity: a dish with preparation time, price, an
// optional source link, and an optional uploaded image.
// TagIDs and IngredientIDs are populated from the join tables when loaded.
type Recipe struct {
	Timestamps
	UserID        string   `json:"user_id"`
	Title         string   `json:"title"`
	TimeMinutes   int      `json:"time_minutes"`
	Price         float64  `json:"price"`
	Link          string   `json:"link,omitempty"`
	ImagePath     string   `json:"image_path,omitempty"`
	ImageBlurHash string   `json:"image_blur_hash,omitempty"`
	TagIDs        []string `json:"tag_ids"`
	IngredientIDs []string `json:"ingredient_ids"`
}

// HasImage reports whether an image has been uploaded for this recipe.
func (r *Recipe) HasImage() bool {
	return r.ImagePath != ""
}
