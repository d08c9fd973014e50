package store

import "errors"

// Sentinel errors returned by store implementations.
// "Not found" covers both genuinely absent rows and rows owned by another
// user: ownership-scoped queries never distinguish the two, so a non-owner
// sees the same error as anyone probing a random ID.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrAlreadyExists      = errors.New("already exists")
)
