package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"defaults", Page{}, Page{Skip: 0, Limit: DefaultLimit}},
		{"negative skip", Page{Skip: -5, Limit: 10}, Page{Skip: 0, Limit: 10}},
		{"limit too large", Page{Skip: 3, Limit: 1000}, Page{Skip: 3, Limit: MaxLimit}},
		{"unchanged", Page{Skip: 20, Limit: 5}, Page{Skip: 20, Limit: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}
