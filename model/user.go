package model

import "time"

// User represents a registered account.
type User struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Username      string     `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash  string     `gorm:"size:64;not null" json:"-"`
	CharacterName string     `gorm:"size:32;not null" json:"character_name"`
	Status        int        `gorm:"default:1" json:"status"` // 0=disabled 1=normal
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	LastLoginIP   string     `gorm:"size:45" json:"last_login_ip"`
}

// Profile holds a user's character-level XP totals.
// CharacterLevel is derived from MonthlyXP and must never be written
// inconsistently with it; all mutation goes through the progression service.
type Profile struct {
	UserID         string    `gorm:"primaryKey;size:36" json:"user_id"`
	TotalXP        int64     `gorm:"default:0" json:"total_xp"`
	MonthlyXP      int64     `gorm:"default:0" json:"monthly_xp"`
	CharacterLevel int       `gorm:"default:1" json:"character_level"`
	MonthlyResetAt time.Time `json:"monthly_reset_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
