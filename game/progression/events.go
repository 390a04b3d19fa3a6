package progression

// Event types emitted by the progression service. The host dispatches
// them to UI and notification collaborators; the audit journal records
// them all.
const (
	EventLevelUp         = "level_up"
	EventRewardGranted   = "reward_granted"
	EventStreakMilestone = "streak_milestone"
	EventQuestCompleted  = "quest_completed"
)

// Level scopes for LevelUp events.
const (
	ScopeCharacter = "character"
	ScopeArea      = "area"
)

// Event is one domain event produced by a command.
type Event struct {
	Type     string     `json:"type"`
	Scope    string     `json:"scope,omitempty"`    // level_up: character | area
	Area     string     `json:"area,omitempty"`     // level_up (area), streak_milestone
	NewLevel int        `json:"new_level,omitempty"`
	Count    int        `json:"count,omitempty"`    // streak_milestone
	XPReward int        `json:"xp_reward,omitempty"` // quest_completed
	Reward   RewardKind `json:"reward,omitempty"`   // reward_granted
	BonusXP  int        `json:"bonus_xp,omitempty"` // reward_granted
}

func levelUpEvent(scope, area string, newLevel int) Event {
	return Event{Type: EventLevelUp, Scope: scope, Area: area, NewLevel: newLevel}
}

func rewardEvent(r Reward) Event {
	return Event{Type: EventRewardGranted, Reward: r.Kind, BonusXP: r.BonusXP}
}

func streakMilestoneEvent(area string, count int) Event {
	return Event{Type: EventStreakMilestone, Area: area, Count: count}
}

func questCompletedEvent(xp int) Event {
	return Event{Type: EventQuestCompleted, XPReward: xp}
}
