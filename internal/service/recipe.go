package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ladleapp/ladle-server/internal/domain"
	domainerrors "github.com/ladleapp/ladle-server/internal/errors"
	"github.com/ladleapp/ladle-server/internal/id"
	"github.com/ladleapp/ladle-server/internal/media/images"
	"github.com/ladleapp/ladle-server/internal/normalize"
	"github.com/ladleapp/ladle-server/internal/search"
	"github.com/ladleapp/ladle-server/internal/store"
)

// RecipeService orchestrates recipe operations: CRUD, tag and ingredient
// linking, image uploads, and search indexing.
type RecipeService struct {
	store     store.Store
	search    *search.SearchIndex
	processor *images.Processor
	logger    *slog.Logger
}

// NewRecipeService creates a new recipe service.
// The search index is optional; a nil index disables search without
// affecting anything else.
func NewRecipeService(store store.Store, searchIndex *search.SearchIndex, processor *images.Processor, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:     store,
		search:    searchIndex,
		processor: processor,
		logger:    logger,
	}
}

// CreateRecipeRequest carries a new recipe's fields.
type CreateRecipeRequest struct {
	Title         string   `json:"title" validate:"required,max=255"`
	TimeMinutes   int      `json:"time_minutes" validate:"gte=0"`
	Price         float64  `json:"price" validate:"gte=0"`
	Link          string   `json:"link" validate:"max=255"`
	TagIDs        []string `json:"tags"`
	IngredientIDs []string `json:"ingredients"`
}

// ReplaceRecipeRequest carries a full replacement of a recipe.
// Lists omitted from the request body arrive empty and clear the links;
// full replacement means absent is empty, not unchanged.
type ReplaceRecipeRequest = CreateRecipeRequest

// PatchRecipeRequest carries partial recipe changes.
// Nil fields are left untouched, including the link lists.
type PatchRecipeRequest struct {
	Title         *string   `json:"title" validate:"omitempty,max=255"`
	TimeMinutes   *int      `json:"time_minutes" validate:"omitempty,gte=0"`
	Price         *float64  `json:"price" validate:"omitempty,gte=0"`
	Link          *string   `json:"link" validate:"omitempty,max=255"`
	TagIDs        *[]string `json:"tags"`
	IngredientIDs *[]string `json:"ingredients"`
}

// ListParams narrows a recipe listing.
type ListParams struct {
	TagIDs        []string
	IngredientIDs []string
}

// List returns the user's recipes, newest first, optionally filtered by
// tag or ingredient IDs (OR semantics within each list).
func (s *RecipeService) List(ctx context.Context, userID string, params ListParams) ([]*domain.Recipe, error) {
	return s.store.ListRecipes(ctx, userID, store.RecipeFilter{
		TagIDs:        params.TagIDs,
		IngredientIDs: params.IngredientIDs,
	})
}

// Get returns a single recipe owned by the user, links populated.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if errors.Is(err, store.ErrRecipeNotFound) {
		return nil, domainerrors.NotFound("recipe not found")
	}
	return recipe, err
}

// Create makes a new recipe owned by the user. Referenced tags and
// ingredients must already exist and belong to the same user.
func (s *RecipeService) Create(ctx context.Context, userID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	req.Title = normalize.Name(req.Title)
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if err := s.checkOwnedLinks(ctx, userID, req.TagIDs, req.IngredientIDs); err != nil {
		return nil, err
	}

	recipeID, err := id.Generate("rec")
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	recipe := &domain.Recipe{
		Timestamps:  domain.Timestamps{ID: recipeID},
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
	}
	recipe.InitTimestamps()

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	if err := s.store.SetRecipeTags(ctx, recipeID, req.TagIDs); err != nil {
		return nil, fmt.Errorf("set recipe tags: %w", err)
	}
	if err := s.store.SetRecipeIngredients(ctx, recipeID, req.IngredientIDs); err != nil {
		return nil, fmt.Errorf("set recipe ingredients: %w", err)
	}

	recipe, err = s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	s.indexRecipe(ctx, recipe)
	s.logger.Info("recipe created", "recipe_id", recipeID, "user_id", userID)

	return recipe, nil
}

// Replace overwrites every mutable field of a recipe.
// Tag and ingredient lists are always applied: omitting them clears the links.
func (s *RecipeService) Replace(ctx context.Context, userID, recipeID string, req ReplaceRecipeRequest) (*domain.Recipe, error) {
	req.Title = normalize.Name(req.Title)
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnedLinks(ctx, userID, req.TagIDs, req.IngredientIDs); err != nil {
		return nil, err
	}

	recipe.Title = req.Title
	recipe.TimeMinutes = req.TimeMinutes
	recipe.Price = req.Price
	recipe.Link = req.Link
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if err := s.store.SetRecipeTags(ctx, recipeID, req.TagIDs); err != nil {
		return nil, fmt.Errorf("set recipe tags: %w", err)
	}
	if err := s.store.SetRecipeIngredients(ctx, recipeID, req.IngredientIDs); err != nil {
		return nil, fmt.Errorf("set recipe ingredients: %w", err)
	}

	recipe, err = s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	s.indexRecipe(ctx, recipe)

	return recipe, nil
}

// Patch applies partial changes to a recipe. Absent fields keep their
// current values; a present list replaces the links wholesale.
func (s *RecipeService) Patch(ctx context.Context, userID, recipeID string, req PatchRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := normalize.Name(*req.Title)
		if title == "" {
			return nil, domainerrors.Validation("title is required")
		}
		recipe.Title = title
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}

	var tagIDs, ingredientIDs []string
	if req.TagIDs != nil {
		tagIDs = *req.TagIDs
	}
	if req.IngredientIDs != nil {
		ingredientIDs = *req.IngredientIDs
	}
	if err := s.checkOwnedLinks(ctx, userID, tagIDs, ingredientIDs); err != nil {
		return nil, err
	}

	recipe.Touch()
	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	if req.TagIDs != nil {
		if err := s.store.SetRecipeTags(ctx, recipeID, tagIDs); err != nil {
			return nil, fmt.Errorf("set recipe tags: %w", err)
		}
	}
	if req.IngredientIDs != nil {
		if err := s.store.SetRecipeIngredients(ctx, recipeID, ingredientIDs); err != nil {
			return nil, fmt.Errorf("set recipe ingredients: %w", err)
		}
	}

	recipe, err = s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	s.indexRecipe(ctx, recipe)

	return recipe, nil
}

// Delete removes a recipe owned by the user, along with its stored image
// and search document.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID string) error {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, userID, recipeID); err != nil {
		if errors.Is(err, store.ErrRecipeNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	if recipe.HasImage() && s.processor != nil {
		if err := s.processor.Remove(recipe.ImagePath); err != nil {
			s.logger.Warn("failed to remove recipe image", "recipe_id", recipeID, "error", err)
		}
	}

	if s.search != nil {
		if err := s.search.DeleteRecipe(recipeID); err != nil {
			s.logger.Warn("failed to remove recipe from search index", "recipe_id", recipeID, "error", err)
		}
	}

	s.logger.Info("recipe deleted", "recipe_id", recipeID, "user_id", userID)
	return nil
}

// AttachImage validates and stores an uploaded image for a recipe,
// replacing any previous one.
func (s *RecipeService) AttachImage(ctx context.Context, userID, recipeID string, data []byte) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if s.processor == nil {
		return nil, domainerrors.Internal("image storage is not configured")
	}

	result, err := s.processor.Process(data)
	if err != nil {
		if errors.Is(err, images.ErrNotAnImage) {
			return nil, domainerrors.Validation("upload a valid image")
		}
		return nil, fmt.Errorf("process image: %w", err)
	}

	oldImage := recipe.ImagePath

	recipe.ImagePath = result.Filename
	recipe.ImageBlurHash = result.BlurHash
	recipe.Touch()
	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	if oldImage != "" && oldImage != result.Filename {
		if err := s.processor.Remove(oldImage); err != nil {
			s.logger.Warn("failed to remove replaced image", "recipe_id", recipeID, "error", err)
		}
	}

	s.logger.Info("recipe image uploaded",
		"recipe_id", recipeID,
		"user_id", userID,
		"filename", result.Filename,
	)

	return recipe, nil
}

// Search runs a full-text query over the user's recipes.
func (s *RecipeService) Search(ctx context.Context, userID, query string, limit, offset int) (*search.SearchResult, error) {
	if s.search == nil {
		return nil, domainerrors.Internal("search is not configured")
	}

	params := search.DefaultSearchParams()
	params.UserID = userID
	params.Query = query
	if limit > 0 {
		params.Limit = limit
	}
	if offset > 0 {
		params.Offset = offset
	}

	return s.search.Search(ctx, params)
}

// SearchMatchIDs returns the ID of every one of the user's recipes matching
// the query. It pages through the index until the match set is exhausted, so
// callers can intersect it with an already narrowed listing without top-k
// ranking dropping matches that sit below the page boundary.
func (s *RecipeService) SearchMatchIDs(ctx context.Context, userID, query string) (map[string]bool, error) {
	if s.search == nil {
		return nil, domainerrors.Internal("search is not configured")
	}

	const pageSize = 100

	ids := make(map[string]bool)
	for offset := 0; ; offset += pageSize {
		params := search.DefaultSearchParams()
		params.UserID = userID
		params.Query = query
		params.Limit = pageSize
		params.Offset = offset
		params.Highlight = false

		result, err := s.search.Search(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, hit := range result.Hits {
			ids[hit.ID] = true
		}
		if len(result.Hits) < pageSize {
			break
		}
	}
	return ids, nil
}

// SearchDocumentCount reports how many recipes the search index holds.
func (s *RecipeService) SearchDocumentCount() (uint64, error) {
	if s.search == nil {
		return 0, domainerrors.Internal("search is not configured")
	}
	return s.search.DocumentCount()
}

// ReindexAll rebuilds the search index from the store.
// Called on startup so the index always reflects the database.
func (s *RecipeService) ReindexAll(ctx context.Context, userIDs []string) error {
	if s.search == nil {
		return nil
	}

	var docs []*search.RecipeDocument
	for _, userID := range userIDs {
		recipes, err := s.store.ListRecipes(ctx, userID, store.RecipeFilter{})
		if err != nil {
			return fmt.Errorf("list recipes for %s: %w", userID, err)
		}
		for _, r := range recipes {
			doc, err := s.buildDocument(ctx, r)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
	}

	return s.search.IndexRecipes(docs)
}

// checkOwnedLinks verifies every referenced tag and ingredient exists and
// belongs to the user. Referencing anything else is a validation failure,
// matching how unknown IDs in a request body are reported.
func (s *RecipeService) checkOwnedLinks(ctx context.Context, userID string, tagIDs, ingredientIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := s.store.GetTag(ctx, userID, tagID); err != nil {
			if errors.Is(err, store.ErrTagNotFound) {
				return domainerrors.Validationf("invalid tag: %s", tagID)
			}
			return fmt.Errorf("check tag %s: %w", tagID, err)
		}
	}
	for _, ingredientID := range ingredientIDs {
		if _, err := s.store.GetIngredient(ctx, userID, ingredientID); err != nil {
			if errors.Is(err, store.ErrIngredientNotFound) {
				return domainerrors.Validationf("invalid ingredient: %s", ingredientID)
			}
			return fmt.Errorf("check ingredient %s: %w", ingredientID, err)
		}
	}
	return nil
}

// buildDocument assembles a search document with denormalized names.
func (s *RecipeService) buildDocument(ctx context.Context, recipe *domain.Recipe) (*search.RecipeDocument, error) {
	tags, err := s.store.GetTagsForRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("load tags for %s: %w", recipe.ID, err)
	}
	ingredients, err := s.store.GetIngredientsForRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("load ingredients for %s: %w", recipe.ID, err)
	}

	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}
	ingredientNames := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ingredientNames = append(ingredientNames, ing.Name)
	}

	return search.RecipeToDocument(recipe, tagNames, ingredientNames), nil
}

// indexRecipe updates the search document for a recipe, best effort.
func (s *RecipeService) indexRecipe(ctx context.Context, recipe *domain.Recipe) {
	if s.search == nil {
		return
	}

	doc, err := s.buildDocument(ctx, recipe)
	if err != nil {
		s.logger.Warn("failed to build search document", "recipe_id", recipe.ID, "error", err)
		return
	}
	if err := s.search.IndexRecipe(doc); err != nil {
		s.logger.Warn("failed to index recipe", "recipe_id", recipe.ID, "error", err)
	}
}
