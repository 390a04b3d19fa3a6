package progression

import (
	"context"
	"time"

	"github.com/veyralune/lifequest/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduled maintenance jobs. Each one is idempotent: re-running on the
// same day neither double-assigns quests nor double-resets XP.

// GenerateDailyQuests assigns a random batch of daily templates to every
// user who has none due today. On Mondays it also deals the weekly batch.
func (svc *Service) GenerateDailyQuests(ctx context.Context, now time.Time) (int, error) {
	today := dateOnly(now)

	var templates []model.QuestTemplate
	if err := svc.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&templates).Error; err != nil {
		return 0, err
	}
	var daily, weekly []model.QuestTemplate
	for _, t := range templates {
		if t.QuestType == model.QuestTypeWeekly {
			weekly = append(weekly, t)
		} else {
			daily = append(daily, t)
		}
	}

	var users []model.User
	if err := svc.db.WithContext(ctx).Select("id").Find(&users).Error; err != nil {
		return 0, err
	}

	created := 0
	for _, u := range users {
		n, err := svc.dealQuests(ctx, u.ID, daily, svc.cfg.DailyQuestBatch, model.QuestTypeDaily, today)
		if err != nil {
			return created, err
		}
		created += n
		if now.Weekday() == time.Monday {
			n, err := svc.dealQuests(ctx, u.ID, weekly, svc.cfg.WeeklyQuestBatch, model.QuestTypeWeekly, today.AddDate(0, 0, 7))
			if err != nil {
				return created, err
			}
			created += n
		}
	}
	svc.logger.Info("quest generation finished",
		zap.Int("users", len(users)),
		zap.Int("quests_created", created))
	return created, nil
}

// dealQuests creates up to batch quests from a shuffled template pool,
// skipping users who already hold quests of that type due on or after the
// due date (same-day batch already ran).
func (svc *Service) dealQuests(ctx context.Context, userID string, pool []model.QuestTemplate, batch int, questType string, due time.Time) (int, error) {
	if len(pool) == 0 || batch <= 0 {
		return 0, nil
	}

	var existing []model.Quest
	if err := svc.db.WithContext(ctx).Select("id").
		Where("user_id = ? AND quest_type = ? AND due_date >= ? AND is_expired = ?", userID, questType, due, false).
		Find(&existing).Error; err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	picks := make([]model.QuestTemplate, len(pool))
	copy(picks, pool)
	svc.roller.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })
	if len(picks) > batch {
		picks = picks[:batch]
	}

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tpl := range picks {
			quest := &model.Quest{
				UserID:      userID,
				Title:       tpl.Title,
				Description: tpl.Description,
				Area:        tpl.Area,
				XPReward:    tpl.XPReward,
				QuestType:   tpl.QuestType,
				DueDate:     due,
			}
			if err := tx.Create(quest).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(picks), nil
}

// ResetWeeklyXP zeroes weekly XP on Mondays. Zeroing is naturally
// idempotent, so a re-run is harmless.
func (svc *Service) ResetWeeklyXP(ctx context.Context, now time.Time) error {
	if now.Weekday() != time.Monday {
		return nil
	}
	res := svc.db.WithContext(ctx).Model(&model.AreaProgress{}).
		Where("weekly_xp <> ?", 0).
		Update("weekly_xp", 0)
	if res.Error != nil {
		return res.Error
	}
	svc.logger.Info("weekly XP reset", zap.Int64("rows", res.RowsAffected))
	return nil
}

// ResetMonthlyXP zeroes monthly XP for profiles not yet reset this month.
// Character levels are untouched: levels never decrease.
func (svc *Service) ResetMonthlyXP(ctx context.Context, now time.Time) error {
	first := firstOfMonth(now)
	res := svc.db.WithContext(ctx).Model(&model.Profile{}).
		Where("monthly_reset_at < ?", first).
		Updates(map[string]interface{}{
			"monthly_xp":       0,
			"monthly_reset_at": first,
		})
	if res.Error != nil {
		return res.Error
	}
	svc.logger.Info("monthly XP reset", zap.Int64("profiles", res.RowsAffected))
	return nil
}

// ExpireOverdueQuests flags incomplete quests past their due date.
func (svc *Service) ExpireOverdueQuests(ctx context.Context, now time.Time) error {
	res := svc.db.WithContext(ctx).Model(&model.Quest{}).
		Where("is_completed = ? AND is_expired = ? AND due_date < ?", false, false, dateOnly(now)).
		Update("is_expired", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		svc.logger.Info("quests expired", zap.Int64("rows", res.RowsAffected))
	}
	return nil
}

// RefreshLeaderboard rebuilds the XP sorted set from the profiles table.
func (svc *Service) RefreshLeaderboard(ctx context.Context) (int, error) {
	if svc.cache == nil {
		return 0, nil
	}
	var profiles []model.Profile
	if err := svc.db.WithContext(ctx).Select("user_id, total_xp").
		Order("total_xp DESC").Limit(svc.cfg.LeaderboardTopN).
		Find(&profiles).Error; err != nil {
		return 0, err
	}
	for _, p := range profiles {
		if err := svc.cache.ZAdd(ctx, LeaderboardKey, float64(p.TotalXP), p.UserID); err != nil {
			return 0, err
		}
	}
	return len(profiles), nil
}
