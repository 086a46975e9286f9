package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSize_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		size     Size
		expected bool
	}{
		{"positive", Size{Width: 800, Height: 600}, true},
		{"zero width", Size{Width: 0, Height: 600}, false},
		{"zero height", Size{Width: 800, Height: 0}, false},
		{"negative", Size{Width: -1, Height: 600}, false},
		{"nan", Size{Width: math.NaN(), Height: 600}, false},
		{"inf", Size{Width: 800, Height: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.size.IsValid())
		})
	}
}

func TestSize_Scale(t *testing.T) {
	s := Size{Width: 100, Height: 50}.Scale(2)
	assert.Equal(t, Size{Width: 200, Height: 100}, s)
}
