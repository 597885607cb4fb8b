package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		maxWords int
		want     string
	}{
		{"punctuation stripped", "My Great Swim Workout!!", 6, "my-great-swim-workout"},
		{"truncates to word cap", "One Two Three Four Five Six Seven", 6, "one-two-three-four-five-six"},
		{"collapses whitespace", "spaced   out    title", 6, "spaced-out-title"},
		{"keeps existing hyphens", "Hands-On Guide", 6, "hands-on-guide"},
		{"unicode dropped", "Caffè & Crème Brûlée", 6, "caff-crme-brle"},
		{"empty title", "", 6, ""},
		{"only punctuation", "?!?!", 6, ""},
		{"word cap floor", "alpha beta", 0, "alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Slugify(tt.title, tt.maxWords))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	t.Parallel()

	first := Slugify("My Great Swim Workout!!", 6)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Slugify("My Great Swim Workout!!", 6))
	}
}
