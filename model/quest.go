package model

import "time"

// Quest difficulty and type enums. Stored as plain strings to match the
// template catalog.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	QuestTypeDaily  = "daily"
	QuestTypeWeekly = "weekly"
)

// ValidDifficulty reports whether d is a known difficulty.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// QuestTemplate is one entry of the static quest catalog.
// Read-only to the engine; the seed catalog and admins maintain it.
type QuestTemplate struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"uniqueIndex;size:128;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Area        Area      `gorm:"index:idx_template_area;size:16;not null" json:"area"`
	XPReward    int       `gorm:"not null" json:"xp_reward"`
	Difficulty  string    `gorm:"size:8;not null" json:"difficulty"`
	QuestType   string    `gorm:"size:8;not null" json:"quest_type"`
	// No column default: a default tag would make gorm skip the field on
	// create when it is false, silently persisting true. Seeds and
	// callers set it explicitly.
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Quest is a template instantiated for a user, terminated by completion
// or expiry.
type Quest struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string     `gorm:"index:idx_quest_user;size:36;not null" json:"user_id"`
	Title       string     `gorm:"size:128;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Area        Area       `gorm:"size:16;not null" json:"area"`
	XPReward    int        `gorm:"not null" json:"xp_reward"`
	QuestType   string     `gorm:"size:8;not null" json:"quest_type"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	IsExpired   bool       `gorm:"default:false" json:"is_expired"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
