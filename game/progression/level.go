package progression

// ComputeLevel derives the level reached with cumulativeXP, given the
// level the holder is currently at. Completing level n costs base*n XP,
// so each level requires proportionally more XP than the last:
//
//	level = floor(cumulativeXP / (base * currentLevel)) + 1
//
// The result never drops below currentLevel: levels are monotonically
// non-decreasing even when a threshold recomputation would say otherwise
// (monthly XP resets, for instance).
func ComputeLevel(cumulativeXP int64, currentLevel, base int) int {
	if currentLevel < 1 {
		currentLevel = 1
	}
	if base <= 0 || cumulativeXP <= 0 {
		return currentLevel
	}
	threshold := int64(base) * int64(currentLevel)
	level := int(cumulativeXP/threshold) + 1
	if level < currentLevel {
		return currentLevel
	}
	return level
}
