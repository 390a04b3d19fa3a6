package model

import "time"

// DailyLogin records one user login per calendar day.
// The unique user×date index is what makes RecordDailyLogin idempotent.
type DailyLogin struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          string    `gorm:"uniqueIndex:idx_user_login_date;size:36;not null" json:"user_id"`
	LoginDate       string    `gorm:"uniqueIndex:idx_user_login_date;size:10;not null" json:"login_date"` // YYYY-MM-DD
	ConsecutiveDays int       `gorm:"default:1" json:"consecutive_days"`
	BonusClaimed    bool      `gorm:"default:false" json:"bonus_claimed"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge is a rare badge won from a reward roll.
type UserBadge struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"index:idx_badge_user;size:36;not null" json:"user_id"`
	Code      string    `gorm:"size:64;not null" json:"code"`
	Area      Area      `gorm:"size:16" json:"area"`
	WonAt     time.Time `gorm:"autoCreateTime" json:"won_at"`
}
