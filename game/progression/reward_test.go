package progression

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollOutcome_Bands(t *testing.T) {
	tests := []struct {
		name string
		r    float64
		want RewardKind
	}{
		{"bottom of bonus band", 0.0, RewardBonusXP},
		{"inside bonus band", 0.05, RewardBonusXP},
		{"just below freeze band", 0.0999, RewardBonusXP},
		{"start of freeze band", 0.10, RewardStreakFreeze},
		{"inside freeze band", 0.12, RewardStreakFreeze},
		{"start of badge band", 0.15, RewardRareBadge},
		{"inside badge band", 0.155, RewardRareBadge},
		{"just past badge band", 0.16, RewardNone},
		{"middle of nothing", 0.5, RewardNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rollOutcome(tt.r, 1.5, 10)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestRollOutcome_BonusXP(t *testing.T) {
	// multiplier 1.5 on 10 XP: round(15) - 10 = 5 extra.
	assert.Equal(t, 5, rollOutcome(0.05, 1.5, 10).BonusXP)
	// multiplier just shy of 2.0 on 10 XP: round(19.99) - 10 = 10 extra.
	assert.Equal(t, 10, rollOutcome(0.05, 1.999, 10).BonusXP)
	// non-bonus outcomes never carry XP.
	assert.Zero(t, rollOutcome(0.12, 0, 10).BonusXP)
	assert.Zero(t, rollOutcome(0.5, 0, 10).BonusXP)
}

func TestRoller_SeededSequenceIsDeterministic(t *testing.T) {
	a := NewRoller(rand.New(rand.NewSource(42)))
	b := NewRoller(rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Roll(10), b.Roll(10))
	}
}

func TestRoller_Frequencies(t *testing.T) {
	ro := NewRoller(rand.New(rand.NewSource(1)))
	const n = 100000

	counts := map[RewardKind]int{}
	for i := 0; i < n; i++ {
		counts[ro.Roll(10).Kind]++
	}

	// Expected 10% / 5% / 1% / 84% within a tolerance.
	assert.InDelta(t, 0.10, float64(counts[RewardBonusXP])/n, 0.01)
	assert.InDelta(t, 0.05, float64(counts[RewardStreakFreeze])/n, 0.01)
	assert.InDelta(t, 0.01, float64(counts[RewardRareBadge])/n, 0.005)
	assert.InDelta(t, 0.84, float64(counts[RewardNone])/n, 0.01)
}

func TestRoller_BonusRange(t *testing.T) {
	ro := NewRoller(rand.New(rand.NewSource(7)))
	base := 20
	for i := 0; i < 10000; i++ {
		rw := ro.Roll(base)
		if rw.Kind != RewardBonusXP {
			continue
		}
		total := base + rw.BonusXP
		assert.GreaterOrEqual(t, total, 30, "multiplier floor is 1.5")
		assert.LessOrEqual(t, total, 40, "multiplier ceiling is 2.0")
	}
}
