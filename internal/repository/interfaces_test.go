package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRatingSummary(t *testing.T) {
	summary := BuildRatingSummary(map[int]int64{5: 2, 4: 1, 1: 1, 9: 4})

	assert.Equal(t, int64(4), summary.Count)
	assert.Equal(t, 3.8, summary.Average)
	require.Len(t, summary.Distribution, 5)
	assert.Equal(t, RatingBucket{Rating: 5, Count: 2, Percent: 50}, summary.Distribution[0])
	assert.Equal(t, RatingBucket{Rating: 4, Count: 1, Percent: 25}, summary.Distribution[1])
	assert.Equal(t, RatingBucket{Rating: 1, Count: 1, Percent: 25}, summary.Distribution[4])
}

func TestBuildRatingSummaryEmpty(t *testing.T) {
	summary := BuildRatingSummary(nil)

	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Average)
	require.Len(t, summary.Distribution, 5)
	for _, b := range summary.Distribution {
		assert.Zero(t, b.Percent)
	}
}
