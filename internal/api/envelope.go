package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the wire shape every API response is wrapped in.
// The `v` field name is a contract with clients; renaming it breaks them.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// envelopeVersion is the wire contract version.
const envelopeVersion = 1

// EnvelopeTransformer wraps huma response bodies in the envelope.
// Registered on the huma config so handlers return plain DTOs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, _ := strconv.Atoi(status)
	failed := code >= 400

	switch val := v.(type) {
	case *APIError:
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   val.Message,
			Code:    val.Code,
			Message: val.Message,
			Details: val.Details,
		}, nil
	case error:
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   val.Error(),
		}, nil
	case nil:
		return &Envelope{
			V:       envelopeVersion,
			Success: !failed,
		}, nil
	default:
		return &Envelope{
			V:       envelopeVersion,
			Success: !failed,
			Data:    v,
		}, nil
	}
}
