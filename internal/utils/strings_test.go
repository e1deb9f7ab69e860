package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "Toys",
			expected: []string{"Toys"},
		},
		{
			name:     "varied spacing",
			input:    "Toys,  Groceries , Clothing",
			expected: []string{"Toys", "Groceries", "Clothing"},
		},
		{
			name:     "trailing comma",
			input:    "Furniture,",
			expected: []string{"Furniture"},
		},
		{
			name:     "leading comma",
			input:    ",Groceries",
			expected: []string{"Groceries"},
		},
		{
			name:     "only spaces",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "comma only",
			input:    ",",
			expected: nil,
		},
		{
			name:     "multiple commas",
			input:    ",,Toys,,Electronics,,",
			expected: []string{"Toys", "Electronics"},
		},
		{
			name:     "value with internal spaces preserved",
			input:    "Home Goods, Office Supplies",
			expected: []string{"Home Goods", "Office Supplies"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCSV(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseFloats(t *testing.T) {
	values, err := ParseFloats("4, 4.5,5,, 1e1")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4.5, 5, 10}, values)

	values, err = ParseFloats("")
	require.NoError(t, err)
	assert.Empty(t, values)

	for _, bad := range []string{"4,five", "NaN", "1,Inf"} {
		_, err := ParseFloats(bad)
		assert.Error(t, err, bad)
	}
}
