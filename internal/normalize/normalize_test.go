package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases domain", "test@GMAIL.COM", "test@gmail.com"},
		{"preserves local part", "Test@gmail.com", "Test@gmail.com"},
		{"trims whitespace", "  test@example.org  ", "test@example.org"},
		{"no at sign passes through", "notanemail", "notanemail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.input))
		})
	}
}

func TestEmailKey(t *testing.T) {
	assert.Equal(t, "test@gmail.com", EmailKey("Test@GMAIL.com"))
	assert.Equal(t, EmailKey("USER@example.org"), EmailKey("user@EXAMPLE.ORG"))
}

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses inner whitespace", "Comfort   Food", "Comfort Food"},
		{"trims edges", "  Vegan ", "Vegan"},
		{"newlines and tabs", "Main\t\ncourse", "Main course"},
		{"empty stays empty", "   ", ""},
		{"composes decomposed accents", "Crème", "Crème"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.input))
		})
	}
}
