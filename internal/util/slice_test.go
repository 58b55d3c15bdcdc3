package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestMinMax(t *testing.T) {
	// GIVEN
	values := []float64{3, 1, 2}

	// THEN
	assert.Equal(t, 1.0, Min(values))
	assert.Equal(t, 3.0, Max(values))
	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max([]float64{}))
}

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[string]int{
		"F1Mn": 1,
		"#KEY": 2,
		"F0Mn": 3,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []string{"#KEY", "F0Mn", "F1Mn"}, result)
}
