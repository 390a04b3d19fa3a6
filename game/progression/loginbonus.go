package progression

// LoginBonusXP returns the bonus for the given consecutive login day.
// The tiers are evaluated in order and the first match wins: day 7 is
// special-cased above the generic every-7th-day tier, and the >=14 tier
// only applies when the day is not a multiple of 7.
func LoginBonusXP(consecutiveDays int) int {
	switch {
	case consecutiveDays == 7:
		return 50
	case consecutiveDays%7 == 0 && consecutiveDays > 0:
		return 25
	case consecutiveDays >= 14:
		return 10
	default:
		return 5
	}
}
