package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	domainerrors "github.com/ladleapp/ladle-server/internal/errors"
	"github.com/ladleapp/ladle-server/internal/http/response"
)

// maxImageUploadSize bounds multipart image uploads.
const maxImageUploadSize = 10 << 20 // 10MB

// registerMediaRoutes wires the image upload and serving routes.
// These go through chi directly because Huma doesn't easily support
// multipart forms or raw file responses.
func (s *Server) registerMediaRoutes() {
	s.router.Post("/api/v1/recipes/{id}/image", s.handleUploadRecipeImage)
	s.router.Get("/media/recipes/{filename}", s.handleServeRecipeImage)
}

// handleUploadRecipeImage handles image uploads for a recipe.
// POST /api/v1/recipes/{id}/image
// Content-Type: multipart/form-data with "image" field
func (s *Server) handleUploadRecipeImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.authenticateRequest(ctx, r.Header.Get("Authorization"))
	if err != nil {
		response.Unauthorized(w, "Invalid token", s.logger)
		return
	}

	recipeID := chi.URLParam(r, "id")
	if recipeID == "" {
		response.BadRequest(w, "Recipe ID is required", s.logger)
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		response.BadRequest(w, "Failed to parse form data", s.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "No file uploaded. Use 'image' field in multipart form", s.logger)
		return
	}
	defer file.Close()

	if header.Size > maxImageUploadSize {
		response.BadRequest(w, "File too large. Maximum size is 10MB", s.logger)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadSize))
	if err != nil {
		s.logger.Error("Failed to read uploaded file", "error", err, "recipe_id", recipeID)
		response.InternalError(w, "Failed to read uploaded file", s.logger)
		return
	}

	recipe, err := s.services.Recipe.AttachImage(ctx, userID, recipeID, data)
	if err != nil {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			response.Error(w, domainErr.HTTPStatus(), domainErr.Message, s.logger)
			return
		}
		s.logger.Error("Failed to attach image", "error", err, "recipe_id", recipeID, "user_id", userID)
		response.InternalError(w, "Failed to save image", s.logger)
		return
	}

	response.Success(w, map[string]string{
		"id":             recipe.ID,
		"image":          "/media/recipes/" + recipe.ImagePath,
		"image_blurhash": recipe.ImageBlurHash,
	}, s.logger)
}

// handleServeRecipeImage serves a stored recipe image.
// GET /media/recipes/{filename}
func (s *Server) handleServeRecipeImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || !s.imageStorage.Exists(filename) {
		response.NotFound(w, "Image not found", s.logger)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, s.imageStorage.Path(filename))
}
