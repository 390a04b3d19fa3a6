package model

import "time"

// AreaProgress tracks a user's XP within one life area.
type AreaProgress struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_area;size:36;not null" json:"user_id"`
	Area      Area      `gorm:"uniqueIndex:idx_user_area;size:16;not null" json:"area"`
	TotalXP   int64     `gorm:"default:0" json:"total_xp"`
	WeeklyXP  int64     `gorm:"default:0" json:"weekly_xp"`
	Level     int       `gorm:"default:1" json:"level"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Streak tracks consecutive activity days within one life area.
// Invariants: LongestCount >= CurrentCount, FreezeCount >= 0.
type Streak struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           string     `gorm:"uniqueIndex:idx_user_area_streak;size:36;not null" json:"user_id"`
	Area             Area       `gorm:"uniqueIndex:idx_user_area_streak;size:16;not null" json:"area"`
	CurrentCount     int        `gorm:"default:0" json:"current_count"`
	LongestCount     int        `gorm:"default:0" json:"longest_count"`
	FreezeCount      int        `gorm:"default:0" json:"freeze_count"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ActivityLog is an immutable record of one completed activity.
// Rows are append-only; nothing updates them after creation.
type ActivityLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"index:idx_activity_user;size:36;not null" json:"user_id"`
	Area      Area      `gorm:"size:16;not null" json:"area"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	XPEarned  int       `gorm:"not null" json:"xp_earned"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"index:idx_activity_created;autoCreateTime" json:"created_at"`
}
