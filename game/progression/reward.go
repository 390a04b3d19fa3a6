package progression

import (
	"math"
	"math/rand"
	"sync"
)

// RewardKind names the outcome of a variable reward roll.
type RewardKind string

const (
	RewardNone         RewardKind = "none"
	RewardBonusXP      RewardKind = "bonus_xp"
	RewardStreakFreeze RewardKind = "streak_freeze"
	RewardRareBadge    RewardKind = "rare_badge"
)

// Reward is the outcome of one roll. BonusXP is zero unless Kind is
// RewardBonusXP.
type Reward struct {
	Kind    RewardKind `json:"kind"`
	BonusXP int        `json:"bonus_xp"`
}

// Roller draws variable rewards from an injected random source, so tests
// can pin the draw and assert exact banding.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller creates a Roller around the given source. rand.Rand is not
// safe for concurrent use; the Roller serializes draws.
func NewRoller(rng *rand.Rand) *Roller {
	return &Roller{rng: rng}
}

// Roll partitions one uniform draw r in [0,1) into cumulative bands:
// bonus XP below 0.10, a streak freeze below 0.15, a rare badge below
// 0.16, nothing otherwise. The bands are cumulative on a single draw so
// exactly one outcome (or none) occurs per activity and the probabilities
// stay exact: 10% / 5% / 1% / 84%.
func (ro *Roller) Roll(baseXP int) Reward {
	ro.mu.Lock()
	r := ro.rng.Float64()
	var m float64
	if r < 0.10 {
		m = 1.5 + ro.rng.Float64()*0.5 // multiplier in [1.5, 2.0)
	}
	ro.mu.Unlock()
	return rollOutcome(r, m, baseXP)
}

// Shuffle randomizes an indexed collection using the roller's source.
// The batch quest generator draws its random template picks here so the
// whole engine shares one injectable stream.
func (ro *Roller) Shuffle(n int, swap func(i, j int)) {
	ro.mu.Lock()
	ro.rng.Shuffle(n, swap)
	ro.mu.Unlock()
}

// rollOutcome maps a draw (and, for the bonus band, a multiplier) to its
// reward. Split out so tests can feed exact draws.
func rollOutcome(r, multiplier float64, baseXP int) Reward {
	switch {
	case r < 0.10:
		bonus := int(math.Round(float64(baseXP)*multiplier)) - baseXP
		return Reward{Kind: RewardBonusXP, BonusXP: bonus}
	case r < 0.15:
		return Reward{Kind: RewardStreakFreeze}
	case r < 0.16:
		return Reward{Kind: RewardRareBadge}
	default:
		return Reward{Kind: RewardNone}
	}
}
