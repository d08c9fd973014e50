package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns the current user's recipes, newest first, with optional tag, ingredient, and full-text filters",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a new recipe owned by the current user",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe with nested tag and ingredient objects",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Replace recipe",
		Description: "Replaces every mutable field; omitted tag and ingredient lists clear the links",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleReplaceRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "patchRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Partially updates a recipe; absent fields are left untouched",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handlePatchRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}",
		Summary:       "Delete recipe",
		Description:   "Deletes a recipe along with its links, stored image, and search document",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Authorization string `header:"Authorization"`
	Tags          string `query:"tags" doc:"Comma-separated tag IDs; matches recipes linked to any of them"`
	Ingredients   string `query:"ingredients" doc:"Comma-separated ingredient IDs; matches recipes linked to any of them"`
	Search        string `query:"search" doc:"Full-text query over title, tag names, and ingredient names"`
}

// RecipeListItem contains recipe data in list responses.
// Lists carry linked IDs only; the detail response nests full objects.
type RecipeListItem struct {
	ID          string    `json:"id" doc:"Recipe ID"`
	Title       string    `json:"title" doc:"Recipe title"`
	TimeMinutes int       `json:"time_minutes" doc:"Preparation time in minutes"`
	Price       float64   `json:"price" doc:"Approximate cost"`
	Link        string    `json:"link,omitempty" doc:"External link"`
	Tags        []string  `json:"tags" doc:"Linked tag IDs"`
	Ingredients []string  `json:"ingredients" doc:"Linked ingredient IDs"`
	Image       string    `json:"image,omitempty" doc:"Servable image path"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListRecipesResponse contains a list of recipes.
type ListRecipesResponse struct {
	Recipes []RecipeListItem `json:"recipes" doc:"List of recipes"`
}

// ListRecipesOutput wraps the list recipes response for Huma.
type ListRecipesOutput struct {
	Body ListRecipesResponse
}

// RecipeDetailResponse contains a recipe with nested link objects.
type RecipeDetailResponse struct {
	ID            string               `json:"id" doc:"Recipe ID"`
	Title         string               `json:"title" doc:"Recipe title"`
	TimeMinutes   int                  `json:"time_minutes" doc:"Preparation time in minutes"`
	Price         float64              `json:"price" doc:"Approximate cost"`
	Link          string               `json:"link,omitempty" doc:"External link"`
	Tags          []TagResponse        `json:"tags" doc:"Linked tags"`
	Ingredients   []IngredientResponse `json:"ingredients" doc:"Linked ingredients"`
	Image         string               `json:"image,omitempty" doc:"Servable image path"`
	ImageBlurHash string               `json:"image_blurhash,omitempty" doc:"BlurHash placeholder for the image"`
	CreatedAt     time.Time            `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time            `json:"updated_at" doc:"Last update time"`
}

// RecipeOutput wraps the recipe detail response for Huma.
type RecipeOutput struct {
	Body RecipeDetailResponse
}

// CreateRecipeRequest is the request body for creating or replacing a recipe.
type CreateRecipeRequest struct {
	Title       string   `json:"title" doc:"Recipe title"`
	TimeMinutes int      `json:"time_minutes,omitempty" doc:"Preparation time in minutes"`
	Price       float64  `json:"price,omitempty" doc:"Approximate cost"`
	Link        string   `json:"link,omitempty" doc:"External link"`
	Tags        []string `json:"tags,omitempty" doc:"Tag IDs to link; must be owned by the caller"`
	Ingredients []string `json:"ingredients,omitempty" doc:"Ingredient IDs to link; must be owned by the caller"`
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateRecipeRequest
}

// ReplaceRecipeInput wraps the full-replacement request for Huma.
type ReplaceRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          CreateRecipeRequest
}

// PatchRecipeRequest is the request body for partial recipe updates.
type PatchRecipeRequest struct {
	Title       *string   `json:"title,omitempty" doc:"Recipe title"`
	TimeMinutes *int      `json:"time_minutes,omitempty" doc:"Preparation time in minutes"`
	Price       *float64  `json:"price,omitempty" doc:"Approximate cost"`
	Link        *string   `json:"link,omitempty" doc:"External link"`
	Tags        *[]string `json:"tags,omitempty" doc:"Tag IDs; replaces links when present"`
	Ingredients *[]string `json:"ingredients,omitempty" doc:"Ingredient IDs; replaces links when present"`
}

// PatchRecipeInput wraps the partial update request for Huma.
type PatchRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          PatchRecipeRequest
}

// GetRecipeInput contains parameters for getting a recipe.
type GetRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// DeleteRecipeInput contains parameters for deleting a recipe.
type DeleteRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// DeleteRecipeOutput is the empty response for a recipe deletion.
type DeleteRecipeOutput struct{}

func imagePathFor(r *domain.Recipe) string {
	if !r.HasImage() {
		return ""
	}
	return "/media/recipes/" + r.ImagePath
}

func recipeToListItem(r *domain.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        r.TagIDs,
		Ingredients: r.IngredientIDs,
		Image:       imagePathFor(r),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// recipeToDetail assembles the detail response with nested link objects.
func (s *Server) recipeToDetail(ctx context.Context, r *domain.Recipe) (RecipeDetailResponse, error) {
	tags, err := s.store.GetTagsForRecipe(ctx, r.ID)
	if err != nil {
		return RecipeDetailResponse{}, err
	}
	ingredients, err := s.store.GetIngredientsForRecipe(ctx, r.ID)
	if err != nil {
		return RecipeDetailResponse{}, err
	}

	tagResponses := make([]TagResponse, len(tags))
	for i, t := range tags {
		tagResponses[i] = tagToResponse(t)
	}
	ingredientResponses := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		ingredientResponses[i] = ingredientToResponse(ing)
	}

	return RecipeDetailResponse{
		ID:            r.ID,
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price,
		Link:          r.Link,
		Tags:          tagResponses,
		Ingredients:   ingredientResponses,
		Image:         imagePathFor(r),
		ImageBlurHash: r.ImageBlurHash,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.List(ctx, userID, service.ListParams{
		TagIDs:        splitIDList(input.Tags),
		IngredientIDs: splitIDList(input.Ingredients),
	})
	if err != nil {
		return nil, err
	}

	// A search query narrows the ordered list to the matching documents.
	// The full match set is fetched so the intersection with the tag and
	// ingredient filters never loses a recipe to search ranking depth.
	if input.Search != "" {
		matched, err := s.services.Recipe.SearchMatchIDs(ctx, userID, input.Search)
		if err != nil {
			return nil, err
		}

		filtered := recipes[:0]
		for _, r := range recipes {
			if matched[r.ID] {
				filtered = append(filtered, r)
			}
		}
		recipes = filtered
	}

	resp := make([]RecipeListItem, len(recipes))
	for i, r := range recipes {
		resp[i] = recipeToListItem(r)
	}

	return &ListRecipesOutput{Body: ListRecipesResponse{Recipes: resp}}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Create(ctx, userID, service.CreateRecipeRequest{
		Title:         input.Body.Title,
		TimeMinutes:   input.Body.TimeMinutes,
		Price:         input.Body.Price,
		Link:          input.Body.Link,
		TagIDs:        input.Body.Tags,
		IngredientIDs: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.recipeToDetail(ctx, recipe)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: detail}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	detail, err := s.recipeToDetail(ctx, recipe)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: detail}, nil
}

func (s *Server) handleReplaceRecipe(ctx context.Context, input *ReplaceRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Replace(ctx, userID, input.ID, service.ReplaceRecipeRequest{
		Title:         input.Body.Title,
		TimeMinutes:   input.Body.TimeMinutes,
		Price:         input.Body.Price,
		Link:          input.Body.Link,
		TagIDs:        input.Body.Tags,
		IngredientIDs: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.recipeToDetail(ctx, recipe)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: detail}, nil
}

func (s *Server) handlePatchRecipe(ctx context.Context, input *PatchRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Patch(ctx, userID, input.ID, service.PatchRecipeRequest{
		Title:         input.Body.Title,
		TimeMinutes:   input.Body.TimeMinutes,
		Price:         input.Body.Price,
		Link:          input.Body.Link,
		TagIDs:        input.Body.Tags,
		IngredientIDs: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.recipeToDetail(ctx, recipe)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: detail}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *DeleteRecipeInput) (*DeleteRecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &DeleteRecipeOutput{}, nil
}
