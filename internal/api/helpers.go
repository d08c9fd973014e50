package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the user ID.
// Both "Token <value>" and "Bearer <value>" schemes are accepted.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, err := s.services.Auth.VerifyToken(ctx, parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid token")
	}

	return user.ID, nil
}

// clientIP picks the client address for rate limit keying.
// X-Forwarded-For may hold a chain; the first entry is the client.
func clientIP(forwardedFor, realIP, remoteAddr string) string {
	if forwardedFor != "" {
		if i := strings.IndexByte(forwardedFor, ','); i >= 0 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return strings.TrimSpace(forwardedFor)
	}

	if realIP != "" {
		return realIP
	}

	if i := strings.LastIndexByte(remoteAddr, ':'); i >= 0 {
		return remoteAddr[:i]
	}
	return remoteAddr
}

// splitIDList parses a comma-separated query parameter into IDs.
// Blank segments are dropped so "a,,b," yields two IDs.
func splitIDList(raw string) []string {
	if raw == "" {
		return nil
	}

	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
