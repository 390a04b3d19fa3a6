package model

import (
	"time"

	"gorm.io/datatypes"
)

// EventLog journals domain events emitted by the progression engine
// (level-ups, rewards, streak milestones, quest completions).
type EventLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID   string         `gorm:"index:idx_event_trace;size:36" json:"trace_id"`
	UserID    string         `gorm:"index:idx_event_user;size:36;not null" json:"user_id"`
	EventType string         `gorm:"size:32;not null" json:"event_type"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"index:idx_event_created;autoCreateTime:milli" json:"created_at"`
}
