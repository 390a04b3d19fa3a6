package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLevel_Thresholds(t *testing.T) {
	tests := []struct {
		name         string
		xp           int64
		currentLevel int
		want         int
	}{
		{"zero xp stays level 1", 0, 1, 1},
		{"just below first threshold", 99, 1, 1},
		{"exactly first threshold", 100, 1, 2},
		{"past first threshold", 105, 1, 2},
		{"level 2 needs 200 more", 399, 2, 2},
		{"level 2 to 3", 400, 2, 3},
		{"deep level jump from level 1 recompute", 1000, 1, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeLevel(tt.xp, tt.currentLevel, 100))
		})
	}
}

func TestComputeLevel_StaircaseExample(t *testing.T) {
	// 95 XP at level 1, then a 10 XP activity lands at 105 and crosses
	// the 100 XP threshold.
	assert.Equal(t, 1, ComputeLevel(95, 1, 100))
	assert.Equal(t, 2, ComputeLevel(105, 1, 100))
}

func TestComputeLevel_NeverDecreases(t *testing.T) {
	// A monthly reset can shrink the cumulative pool; the level holds.
	assert.Equal(t, 5, ComputeLevel(0, 5, 100))
	assert.Equal(t, 5, ComputeLevel(120, 5, 100))
	// Enough XP against the level-5 threshold climbs again.
	assert.Equal(t, 6, ComputeLevel(2500, 5, 100))
}

func TestComputeLevel_DegenerateInputs(t *testing.T) {
	assert.Equal(t, 6, ComputeLevel(500, 0, 100), "currentLevel below 1 clamps to 1")
	assert.Equal(t, 3, ComputeLevel(500, 3, 0), "non-positive base is a no-op")
	assert.Equal(t, 2, ComputeLevel(-50, 2, 100), "negative xp is a no-op")
}
