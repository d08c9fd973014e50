package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/service"
)

func (s *Server) registerIngredientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients",
		Summary:     "List ingredients",
		Description: "Returns the current user's ingredients ordered by name descending",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleListIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createIngredient",
		Method:        http.MethodPost,
		Path:          "/api/v1/ingredients",
		Summary:       "Create ingredient",
		Description:   "Creates a new ingredient owned by the current user",
		Tags:          []string{"Ingredients"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Get ingredient",
		Description: "Returns an ingredient by ID",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleGetIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateIngredient",
		Method:      http.MethodPatch,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Update ingredient",
		Description: "Renames an ingredient",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleUpdateIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteIngredient",
		Method:        http.MethodDelete,
		Path:          "/api/v1/ingredients/{id}",
		Summary:       "Delete ingredient",
		Description:   "Deletes an ingredient and its recipe links",
		Tags:          []string{"Ingredients"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteIngredient)
}

// === DTOs ===

// ListIngredientsInput contains parameters for listing ingredients.
type ListIngredientsInput struct {
	Authorization string `header:"Authorization"`
	AssignedOnly  string `query:"assigned_only" doc:"Pass 1 to list only ingredients linked to a recipe"`
}

// IngredientResponse contains ingredient data in API responses.
type IngredientResponse struct {
	ID        string    `json:"id" doc:"Ingredient ID"`
	Name      string    `json:"name" doc:"Ingredient name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListIngredientsResponse contains a list of ingredients.
type ListIngredientsResponse struct {
	Ingredients []IngredientResponse `json:"ingredients" doc:"List of ingredients"`
}

// ListIngredientsOutput wraps the list ingredients response for Huma.
type ListIngredientsOutput struct {
	Body ListIngredientsResponse
}

// IngredientRequest is the request body for creating or renaming an ingredient.
type IngredientRequest struct {
	Name string `json:"name" doc:"Ingredient name"`
}

// CreateIngredientInput wraps the create ingredient request for Huma.
type CreateIngredientInput struct {
	Authorization string `header:"Authorization"`
	Body          IngredientRequest
}

// IngredientOutput wraps the ingredient response for Huma.
type IngredientOutput struct {
	Body IngredientResponse
}

// GetIngredientInput contains parameters for getting an ingredient.
type GetIngredientInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Ingredient ID"`
}

// UpdateIngredientInput wraps the update ingredient request for Huma.
type UpdateIngredientInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Ingredient ID"`
	Body          IngredientRequest
}

// DeleteIngredientInput contains parameters for deleting an ingredient.
type DeleteIngredientInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Ingredient ID"`
}

// DeleteIngredientOutput is the empty response for an ingredient deletion.
type DeleteIngredientOutput struct{}

func ingredientToResponse(ing *domain.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:        ing.ID,
		Name:      ing.Name,
		CreatedAt: ing.CreatedAt,
		UpdatedAt: ing.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*ListIngredientsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.services.Ingredient.List(ctx, userID, input.AssignedOnly == "1")
	if err != nil {
		return nil, err
	}

	resp := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		resp[i] = ingredientToResponse(ing)
	}

	return &ListIngredientsOutput{Body: ListIngredientsResponse{Ingredients: resp}}, nil
}

func (s *Server) handleCreateIngredient(ctx context.Context, input *CreateIngredientInput) (*IngredientOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Create(ctx, userID, service.IngredientRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: ingredientToResponse(ing)}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetIngredientInput) (*IngredientOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: ingredientToResponse(ing)}, nil
}

func (s *Server) handleUpdateIngredient(ctx context.Context, input *UpdateIngredientInput) (*IngredientOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Update(ctx, userID, input.ID, service.IngredientRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: ingredientToResponse(ing)}, nil
}

func (s *Server) handleDeleteIngredient(ctx context.Context, input *DeleteIngredientInput) (*DeleteIngredientOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Ingredient.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &DeleteIngredientOutput{}, nil
}
