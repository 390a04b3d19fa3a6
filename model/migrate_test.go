package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veyralune/lifequest/config"
	dbadapter "github.com/veyralune/lifequest/db"
	"github.com/veyralune/lifequest/model"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{Mode: dbadapter.ModeSQLiteMemory})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func TestAutoMigrate_AllTablesUsable(t *testing.T) {
	db := setupDB(t)
	now := time.Now()

	require.NoError(t, db.Create(&model.User{ID: "u1", Username: "alice", PasswordHash: "h", CharacterName: "Hero"}).Error)
	require.NoError(t, db.Create(&model.Profile{UserID: "u1", CharacterLevel: 1, MonthlyResetAt: now}).Error)
	require.NoError(t, db.Create(&model.AreaProgress{UserID: "u1", Area: model.AreaPhysical, Level: 1}).Error)
	require.NoError(t, db.Create(&model.Streak{UserID: "u1", Area: model.AreaPhysical}).Error)
	require.NoError(t, db.Create(&model.ActivityLog{UserID: "u1", Area: model.AreaPhysical, Name: "Run", XPEarned: 10}).Error)
	require.NoError(t, db.Create(&model.QuestTemplate{Title: "Walk", Area: model.AreaPhysical, XPReward: 10, Difficulty: model.DifficultyEasy, QuestType: model.QuestTypeDaily, Active: true}).Error)
	require.NoError(t, db.Create(&model.Quest{UserID: "u1", Title: "Walk", Area: model.AreaPhysical, XPReward: 10, QuestType: model.QuestTypeDaily, DueDate: now}).Error)
	require.NoError(t, db.Create(&model.DailyLogin{UserID: "u1", LoginDate: "2026-03-10", ConsecutiveDays: 1}).Error)
	require.NoError(t, db.Create(&model.UserBadge{UserID: "u1", Code: "rare_physical", Area: model.AreaPhysical}).Error)
	require.NoError(t, db.Create(&model.EventLog{UserID: "u1", EventType: "level_up", Payload: []byte(`{"type":"level_up"}`)}).Error)
}

func TestUniqueConstraints(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, db.Create(&model.User{ID: "u1", Username: "alice", PasswordHash: "h", CharacterName: "Hero"}).Error)
	assert.Error(t, db.Create(&model.User{ID: "u2", Username: "alice", PasswordHash: "h", CharacterName: "Twin"}).Error,
		"usernames are unique")

	require.NoError(t, db.Create(&model.AreaProgress{UserID: "u1", Area: model.AreaPhysical, Level: 1}).Error)
	assert.Error(t, db.Create(&model.AreaProgress{UserID: "u1", Area: model.AreaPhysical, Level: 1}).Error,
		"one progress row per user and area")

	require.NoError(t, db.Create(&model.DailyLogin{UserID: "u1", LoginDate: "2026-03-10", ConsecutiveDays: 1}).Error)
	assert.Error(t, db.Create(&model.DailyLogin{UserID: "u1", LoginDate: "2026-03-10", ConsecutiveDays: 1}).Error,
		"one login row per user and day")
}

func TestQuestTemplate_InactivePersists(t *testing.T) {
	// Active has no column default on purpose: with one, gorm would omit
	// the false zero value on create and the row would come back active.
	db := setupDB(t)

	retired := model.QuestTemplate{Title: "Retired", Area: model.AreaPhysical, XPReward: 5, Difficulty: model.DifficultyEasy, QuestType: model.QuestTypeDaily, Active: false}
	require.NoError(t, db.Create(&retired).Error)

	var got model.QuestTemplate
	require.NoError(t, db.First(&got, retired.ID).Error)
	assert.False(t, got.Active)
}

func TestSeedQuestTemplates_Idempotent(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, model.SeedQuestTemplates(db))
	var first int64
	db.Model(&model.QuestTemplate{}).Count(&first)
	assert.Positive(t, first)

	require.NoError(t, model.SeedQuestTemplates(db))
	var second int64
	db.Model(&model.QuestTemplate{}).Count(&second)
	assert.Equal(t, first, second)
}

func TestValidators(t *testing.T) {
	assert.True(t, model.ValidArea(model.AreaSpiritual))
	assert.False(t, model.ValidArea("gaming"))
	assert.True(t, model.ValidDifficulty(model.DifficultyHard))
	assert.False(t, model.ValidDifficulty("extreme"))
}
