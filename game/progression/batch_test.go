package progression

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veyralune/lifequest/model"
	"gorm.io/gorm"
)

func seedTemplates(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, model.SeedQuestTemplates(db))
}

func countQuests(t *testing.T, db *gorm.DB, userID, questType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Quest{}).
		Where("user_id = ? AND quest_type = ?", userID, questType).Count(&n).Error)
	return n
}

func TestGenerateDailyQuests_WeekdayRun(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "u1")
	seedTemplates(t, db)

	tuesday := day(2026, 3, 10).Add(4 * time.Hour)
	created, err := svc.GenerateDailyQuests(context.Background(), tuesday)
	require.NoError(t, err)
	assert.Equal(t, 5, created)
	assert.Equal(t, int64(5), countQuests(t, db, "u1", model.QuestTypeDaily))
	assert.Zero(t, countQuests(t, db, "u1", model.QuestTypeWeekly), "weeklies only deal on Mondays")
}

func TestGenerateDailyQuests_MondayDealsWeeklies(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "u1")
	seedTemplates(t, db)

	monday := day(2026, 3, 9).Add(4 * time.Hour)
	created, err := svc.GenerateDailyQuests(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 8, created)
	assert.Equal(t, int64(5), countQuests(t, db, "u1", model.QuestTypeDaily))
	assert.Equal(t, int64(3), countQuests(t, db, "u1", model.QuestTypeWeekly))
}

func TestGenerateDailyQuests_IdempotentSameDay(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "u1")
	seedTemplates(t, db)
	ctx := context.Background()

	monday := day(2026, 3, 9).Add(4 * time.Hour)
	_, err := svc.GenerateDailyQuests(ctx, monday)
	require.NoError(t, err)

	created, err := svc.GenerateDailyQuests(ctx, monday.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, created, "second run on the same day deals nothing")
}

func TestGenerateDailyQuests_CoversAllUsers(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "u1")
	provisionUser(t, svc, db, "u2")
	seedTemplates(t, db)

	created, err := svc.GenerateDailyQuests(context.Background(), day(2026, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, 10, created)
	assert.Equal(t, int64(5), countQuests(t, db, "u2", model.QuestTypeDaily))
}

func TestResetWeeklyXP(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "u1")
	ctx := context.Background()

	require.NoError(t, db.Model(&model.AreaProgress{}).
		Where("user_id = ? AND area = ?", "u1", model.AreaPhysical).
		Updates(map[string]interface{}{"total_xp": 120, "weekly_xp": 45}).Error)

	// Not a Monday: nothing moves.
	require.NoError(t, svc.ResetWeeklyXP(ctx, day(2026, 3, 10)))
	var ap model.AreaProgress
	require.NoError(t, db.Where("user_id = ? AND area = ?", "u1", model.AreaPhysical).First(&ap).Error)
	assert.Equal(t, int64(45), ap.WeeklyXP)

	// Monday: weekly zeroes, lifetime total survives.
	require.NoError(t, svc.ResetWeeklyXP(ctx, day(2026, 3, 9)))
	require.NoError(t, db.Where("user_id = ? AND area = ?", "u1", model.AreaPhysical).First(&ap).Error)
	assert.Zero(t, ap.WeeklyXP)
	assert.Equal(t, int64(120), ap.TotalXP)
}

func TestResetMonthlyXP_StampsOncePerMonth(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "u1")
	ctx := context.Background()

	require.NoError(t, db.Model(&model.Profile{}).
		Where("user_id = ?", "u1").
		Updates(map[string]interface{}{
			"total_xp":         300,
			"monthly_xp":       180,
			"character_level":  3,
			"monthly_reset_at": day(2026, 3, 1),
		}).Error)

	// April rolls over: monthly XP clears, level and lifetime hold.
	require.NoError(t, svc.ResetMonthlyXP(ctx, day(2026, 4, 2)))
	var profile model.Profile
	require.NoError(t, db.Where("user_id = ?", "u1").First(&profile).Error)
	assert.Zero(t, profile.MonthlyXP)
	assert.Equal(t, int64(300), profile.TotalXP)
	assert.Equal(t, 3, profile.CharacterLevel)
	assert.True(t, profile.MonthlyResetAt.Equal(day(2026, 4, 1)))

	// Re-accrue, then re-run inside the same month: no second reset.
	require.NoError(t, db.Model(&model.Profile{}).
		Where("user_id = ?", "u1").Update("monthly_xp", 40).Error)
	require.NoError(t, svc.ResetMonthlyXP(ctx, day(2026, 4, 20)))
	require.NoError(t, db.Where("user_id = ?", "u1").First(&profile).Error)
	assert.Equal(t, int64(40), profile.MonthlyXP)
}

func TestExpireOverdueQuests(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "u1")
	ctx := context.Background()

	overdue := model.Quest{UserID: "u1", Title: "Old", Area: model.AreaPhysical, XPReward: 10, QuestType: model.QuestTypeDaily, DueDate: day(2026, 3, 8)}
	current := model.Quest{UserID: "u1", Title: "Fresh", Area: model.AreaPhysical, XPReward: 10, QuestType: model.QuestTypeDaily, DueDate: day(2026, 3, 11)}
	done := model.Quest{UserID: "u1", Title: "Done", Area: model.AreaPhysical, XPReward: 10, QuestType: model.QuestTypeDaily, DueDate: day(2026, 3, 8), IsCompleted: true}
	require.NoError(t, db.Create(&overdue).Error)
	require.NoError(t, db.Create(&current).Error)
	require.NoError(t, db.Create(&done).Error)

	require.NoError(t, svc.ExpireOverdueQuests(ctx, day(2026, 3, 10)))

	// Fresh structs per lookup: First on a populated struct would keep
	// the previous primary key in the query conditions.
	var gotOverdue, gotCurrent, gotDone model.Quest
	require.NoError(t, db.First(&gotOverdue, overdue.ID).Error)
	assert.True(t, gotOverdue.IsExpired)
	require.NoError(t, db.First(&gotCurrent, current.ID).Error)
	assert.False(t, gotCurrent.IsExpired)
	require.NoError(t, db.First(&gotDone, done.ID).Error)
	assert.False(t, gotDone.IsExpired, "completed quests never expire")
}

func TestRefreshLeaderboard(t *testing.T) {
	svc, db := newTestService(t)
	provisionUser(t, svc, db, "alice")
	provisionUser(t, svc, db, "bob")
	ctx := context.Background()

	require.NoError(t, db.Model(&model.Profile{}).Where("user_id = ?", "alice").Update("total_xp", 500).Error)
	require.NoError(t, db.Model(&model.Profile{}).Where("user_id = ?", "bob").Update("total_xp", 900).Error)

	n, err := svc.RefreshLeaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	members, err := svc.cache.ZRevRange(ctx, LeaderboardKey, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, members)
}
