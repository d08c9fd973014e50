package api

import (
	"bytes"
	"encoding/json/v2"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createRecipe(t *testing.T, token string, body map[string]any) RecipeDetailResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/recipes", authHeader(token), body)
	require.Equal(t, http.StatusCreated, resp.Code, "create recipe failed: %s", resp.Body.String())

	var envelope testEnvelope[RecipeDetailResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func (ts *testServer) listRecipes(t *testing.T, token, query string) []RecipeListItem {
	t.Helper()

	resp := ts.api.Get("/api/v1/recipes"+query, authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code, "list recipes failed: %s", resp.Body.String())

	var envelope testEnvelope[ListRecipesResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.Recipes
}

func TestCreateRecipe_WithLinks(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	tag := ts.createTag(t, token, "Dinner")
	ing := ts.createIngredient(t, token, "Tofu")

	recipe := ts.createRecipe(t, token, map[string]any{
		"title":        "Mapo Tofu",
		"time_minutes": 30,
		"price":        8.5,
		"link":         "https://example.com/mapo",
		"tags":         []string{tag.ID},
		"ingredients":  []string{ing.ID},
	})

	assert.NotEmpty(t, recipe.ID)
	assert.Equal(t, "Mapo Tofu", recipe.Title)
	assert.Equal(t, 30, recipe.TimeMinutes)
	assert.Equal(t, 8.5, recipe.Price)

	// Detail responses nest full tag and ingredient objects
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "Dinner", recipe.Tags[0].Name)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "Tofu", recipe.Ingredients[0].Name)
}

func TestCreateRecipe_Validation(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing title", body: map[string]any{"time_minutes": 10}},
		{name: "negative time", body: map[string]any{"title": "Soup", "time_minutes": -1}},
		{name: "negative price", body: map[string]any{"title": "Soup", "price": -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/recipes", authHeader(token), tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestCreateRecipe_ForeignLinkRejected(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.createTestAccount(t, "owner@example.com")
	otherToken, _ := ts.createTestAccount(t, "other@example.com")

	foreignTag := ts.createTag(t, otherToken, "Theirs")

	resp := ts.api.Post("/api/v1/recipes", authHeader(ownerToken), map[string]any{
		"title": "Borrowed",
		"tags":  []string{foreignTag.ID},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListRecipes_NewestFirstAndScoped(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")
	otherToken, _ := ts.createTestAccount(t, "other@example.com")

	ts.createRecipe(t, token, map[string]any{"title": "First"})
	ts.createRecipe(t, token, map[string]any{"title": "Second"})
	ts.createRecipe(t, otherToken, map[string]any{"title": "Someone Else's"})

	recipes := ts.listRecipes(t, token, "")
	require.Len(t, recipes, 2)
	assert.Equal(t, "Second", recipes[0].Title)
	assert.Equal(t, "First", recipes[1].Title)
}

func TestListRecipes_FilterByTagsAndIngredients(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	vegan := ts.createTag(t, token, "Vegan")
	quick := ts.createTag(t, token, "Quick")
	tofu := ts.createIngredient(t, token, "Tofu")

	ts.createRecipe(t, token, map[string]any{"title": "Salad", "tags": []string{vegan.ID}})
	ts.createRecipe(t, token, map[string]any{"title": "Omelette", "tags": []string{quick.ID}})
	ts.createRecipe(t, token, map[string]any{"title": "Mapo Tofu", "ingredients": []string{tofu.ID}})

	recipes := ts.listRecipes(t, token, "?tags="+vegan.ID)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Salad", recipes[0].Title)

	// Comma-separated tag IDs are OR semantics
	recipes = ts.listRecipes(t, token, "?tags="+vegan.ID+","+quick.ID)
	assert.Len(t, recipes, 2)

	recipes = ts.listRecipes(t, token, "?ingredients="+tofu.ID)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Mapo Tofu", recipes[0].Title)
}

func TestListRecipes_SearchFilter(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	sichuan := ts.createIngredient(t, token, "Sichuan Peppercorn")
	ts.createRecipe(t, token, map[string]any{"title": "Mapo Tofu", "ingredients": []string{sichuan.ID}})
	ts.createRecipe(t, token, map[string]any{"title": "Pancakes"})

	recipes := ts.listRecipes(t, token, "?search=tofu")
	require.Len(t, recipes, 1)
	assert.Equal(t, "Mapo Tofu", recipes[0].Title)

	// Ingredient names are searchable
	recipes = ts.listRecipes(t, token, "?search=sichuan")
	require.Len(t, recipes, 1)
	assert.Equal(t, "Mapo Tofu", recipes[0].Title)
}

func TestListRecipes_SearchComposesWithTagFilter(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	tag := ts.createTag(t, token, "Dinner")
	tagged := ts.createRecipe(t, token, map[string]any{
		"title": "Tofu Stew",
		"tags":  []string{tag.ID},
	})

	// Untagged recipes that outrank the tagged one for the same query
	// must not crowd it out of the intersected result.
	for i := 0; i < 5; i++ {
		ts.createRecipe(t, token, map[string]any{"title": "Tofu Tofu Special"})
	}

	recipes := ts.listRecipes(t, token, "?tags="+tag.ID+"&search=tofu")
	require.Len(t, recipes, 1)
	assert.Equal(t, tagged.ID, recipes[0].ID)
}

func TestReplaceRecipe_ClearsOmittedLists(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	tag := ts.createTag(t, token, "Dinner")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Curry", "tags": []string{tag.ID}})
	require.Len(t, recipe.Tags, 1)

	resp := ts.api.Put("/api/v1/recipes/"+recipe.ID, authHeader(token), map[string]any{
		"title":        "Green Curry",
		"time_minutes": 45,
		"price":        12,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[RecipeDetailResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Green Curry", envelope.Data.Title)
	assert.Empty(t, envelope.Data.Tags)
}

func TestPatchRecipe_PreservesAbsentFields(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	tag := ts.createTag(t, token, "Dinner")
	recipe := ts.createRecipe(t, token, map[string]any{
		"title":        "Curry",
		"time_minutes": 45,
		"tags":         []string{tag.ID},
	})

	resp := ts.api.Patch("/api/v1/recipes/"+recipe.ID, authHeader(token), map[string]any{
		"title": "Red Curry",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[RecipeDetailResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Red Curry", envelope.Data.Title)
	assert.Equal(t, 45, envelope.Data.TimeMinutes)
	require.Len(t, envelope.Data.Tags, 1)
	assert.Equal(t, "Dinner", envelope.Data.Tags[0].Name)
}

func TestRecipe_CrossUserAccessIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.createTestAccount(t, "owner@example.com")
	otherToken, _ := ts.createTestAccount(t, "other@example.com")

	recipe := ts.createRecipe(t, ownerToken, map[string]any{"title": "Secret Stew"})

	resp := ts.api.Get("/api/v1/recipes/"+recipe.ID, authHeader(otherToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Put("/api/v1/recipes/"+recipe.ID, authHeader(otherToken), map[string]any{"title": "Mine Now"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/recipes/"+recipe.ID, authHeader(otherToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteRecipe(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	recipe := ts.createRecipe(t, token, map[string]any{"title": "Pancakes"})

	resp := ts.api.Delete("/api/v1/recipes/"+recipe.ID, authHeader(token))
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/recipes/"+recipe.ID, authHeader(token))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// === Image upload ===

func encodeTestImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// uploadImage posts a multipart form to the chi-served image route.
func (ts *testServer) uploadImage(t *testing.T, token, recipeID, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/"+recipeID+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Token "+token)

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func TestUploadRecipeImage_Success(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	recipe := ts.createRecipe(t, token, map[string]any{"title": "Pancakes"})

	rec := ts.uploadImage(t, token, recipe.ID, "image", encodeTestImage(t))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope testEnvelope[map[string]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data["image"])

	// The reported path serves the stored file
	req := httptest.NewRequest(http.MethodGet, envelope.Data["image"], nil)
	serveRec := httptest.NewRecorder()
	ts.ServeHTTP(serveRec, req)
	assert.Equal(t, http.StatusOK, serveRec.Code)
	assert.NotEmpty(t, serveRec.Body.Bytes())
}

func TestUploadRecipeImage_NotAnImage(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	recipe := ts.createRecipe(t, token, map[string]any{"title": "Pancakes"})

	rec := ts.uploadImage(t, token, recipe.ID, "image", []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRecipeImage_WrongField(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	recipe := ts.createRecipe(t, token, map[string]any{"title": "Pancakes"})

	rec := ts.uploadImage(t, token, recipe.ID, "file", encodeTestImage(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRecipeImage_CrossUserIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.createTestAccount(t, "owner@example.com")
	otherToken, _ := ts.createTestAccount(t, "other@example.com")

	recipe := ts.createRecipe(t, ownerToken, map[string]any{"title": "Secret Stew"})

	rec := ts.uploadImage(t, otherToken, recipe.ID, "image", encodeTestImage(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeRecipeImage_Missing(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/media/recipes/nope.jpg", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
