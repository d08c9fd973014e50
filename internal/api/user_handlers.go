package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createUser",
		Method:        http.MethodPost,
		Path:          "/api/v1/users",
		Summary:       "Create user",
		Description:   "Registers a new user account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "createToken",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/token",
		Summary:     "Create API token",
		Description: "Exchanges credentials for an API token, replacing any previous token",
		Tags:        []string{"Users"},
	}, s.handleCreateToken)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get profile",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Updates name or password for the authenticated user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleUpdateCurrentUser)
}

// === DTOs ===

// CreateUserRequest is the request body for registration.
type CreateUserRequest struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password, at least 8 characters"`
	Name     string `json:"name,omitempty" doc:"Display name"`
}

// CreateUserInput wraps the registration request for Huma.
type CreateUserInput struct {
	Body CreateUserRequest
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// CreateTokenRequest is the request body for token issuance.
type CreateTokenRequest struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password"`
}

// CreateTokenInput wraps the token request for Huma.
// Per-IP rate limiting happens in middleware before the handler runs.
type CreateTokenInput struct {
	Body CreateTokenRequest
}

// TokenResponse contains a freshly issued API token.
type TokenResponse struct {
	Token string `json:"token" doc:"API token; send as 'Authorization: Token <value>'"`
}

// TokenOutput wraps the token response for Huma.
type TokenOutput struct {
	Body TokenResponse
}

// GetCurrentUserInput contains parameters for fetching the profile.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UpdateCurrentUserRequest is the request body for profile updates.
// Absent fields keep their current values; email cannot change here.
type UpdateCurrentUserRequest struct {
	Name     *string `json:"name,omitempty" doc:"Display name"`
	Password *string `json:"password,omitempty" doc:"New password, at least 8 characters"`
}

// UpdateCurrentUserInput wraps the profile update request for Huma.
type UpdateCurrentUserInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateCurrentUserRequest
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	user, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Name:     input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: userToResponse(user)}, nil
}

func (s *Server) handleCreateToken(ctx context.Context, input *CreateTokenInput) (*TokenOutput, error) {
	token, _, err := s.services.Auth.IssueToken(ctx, service.TokenRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &TokenOutput{Body: TokenResponse{Token: token}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: userToResponse(user)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.Update(ctx, userID, service.UpdateProfileRequest{
		Name:     input.Body.Name,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: userToResponse(user)}, nil
}
