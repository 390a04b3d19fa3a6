package progression

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/veyralune/lifequest/audit"
	"github.com/veyralune/lifequest/cache"
	"github.com/veyralune/lifequest/config"
	"github.com/veyralune/lifequest/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaderboardKey is the sorted set holding total XP per user.
const LeaderboardKey = "leaderboard:xp"

// Service is the composition root of the progression engine. Every XP-
// affecting command for a user×area runs under a per-key lock and inside
// one transaction, so concurrent callers cannot lose updates through a
// stale read-modify-write.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	roller *Roller
	cfg    config.ProgressionConfig
	audit  *audit.Service
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a progression Service.
func NewService(db *gorm.DB, c cache.Cache, roller *Roller, cfg config.ProgressionConfig, auditSvc *audit.Service, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		cache:  c,
		roller: roller,
		cfg:    cfg,
		audit:  auditSvc,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lockKey serializes commands for one user×area. An empty area locks the
// whole user (profile-level commands).
func (svc *Service) lockKey(userID, area string) func() {
	key := userID + ":" + area
	svc.mu.Lock()
	l, ok := svc.locks[key]
	if !ok {
		l = &sync.Mutex{}
		svc.locks[key] = l
	}
	svc.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// LogActivityResult is the outcome of a LogActivity command.
type LogActivityResult struct {
	ActivityID int64              `json:"activity_id"`
	XPEarned   int                `json:"xp_earned"`
	Reward     Reward             `json:"reward"`
	Area       model.AreaProgress `json:"area"`
	Profile    model.Profile      `json:"profile"`
	Streak     model.Streak       `json:"streak"`
	Events     []Event            `json:"events"`
}

// LogActivity appends an activity, rolls the variable reward, applies XP
// to the area and profile, and advances the streak.
func (svc *Service) LogActivity(ctx context.Context, userID, area, name string, xp int, notes string, now time.Time) (*LogActivityResult, error) {
	if !model.ValidArea(area) {
		return nil, invalid("area", "unknown life area")
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "required")
	}
	if xp < svc.cfg.MinActivityXP || xp > svc.cfg.MaxActivityXP {
		return nil, invalid("xp", "out of range")
	}

	reward := svc.roller.Roll(xp)
	gain := int64(xp + reward.BonusXP)

	unlock := svc.lockKey(userID, area)
	defer unlock()

	res := &LogActivityResult{XPEarned: xp, Reward: reward}
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ap, streak, profile, err := loadSnapshot(tx, userID, area)
		if err != nil {
			return err
		}

		log := &model.ActivityLog{
			UserID:   userID,
			Area:     area,
			Name:     name,
			XPEarned: xp,
			Notes:    notes,
		}
		if err := tx.Create(log).Error; err != nil {
			return err
		}
		res.ActivityID = log.ID

		// Area XP and level.
		ap.TotalXP += gain
		ap.WeeklyXP += gain
		if lvl := ComputeLevel(ap.TotalXP, ap.Level, svc.cfg.LevelXPBase); lvl > ap.Level {
			ap.Level = lvl
			res.Events = append(res.Events, levelUpEvent(ScopeArea, area, lvl))
		}

		// Character XP; level derives from monthly XP.
		profile.TotalXP += gain
		profile.MonthlyXP += gain
		if lvl := ComputeLevel(profile.MonthlyXP, profile.CharacterLevel, svc.cfg.LevelXPBase); lvl > profile.CharacterLevel {
			profile.CharacterLevel = lvl
			res.Events = append(res.Events, levelUpEvent(ScopeCharacter, "", lvl))
		}

		next, advanced := AdvanceStreak(*streak, now)
		if advanced && isStreakMilestone(next.CurrentCount) {
			res.Events = append(res.Events, streakMilestoneEvent(area, next.CurrentCount))
		}
		*streak = next

		switch reward.Kind {
		case RewardStreakFreeze:
			streak.FreezeCount++
		case RewardRareBadge:
			badge := &model.UserBadge{UserID: userID, Code: "rare_" + area, Area: area}
			if err := tx.Create(badge).Error; err != nil {
				return err
			}
		}
		if reward.Kind != RewardNone {
			res.Events = append(res.Events, rewardEvent(reward))
		}

		if err := tx.Save(ap).Error; err != nil {
			return err
		}
		if err := tx.Save(streak).Error; err != nil {
			return err
		}
		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		res.Area = *ap
		res.Streak = *streak
		res.Profile = *profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.afterXPChange(ctx, userID, res.Profile.TotalXP, res.Events)
	svc.logger.Info("activity logged",
		zap.String("user_id", userID),
		zap.String("area", area),
		zap.Int("xp", xp),
		zap.String("reward", string(reward.Kind)))
	return res, nil
}

// UseStreakFreeze spends one freeze token for the given area.
func (svc *Service) UseStreakFreeze(ctx context.Context, userID, area string, now time.Time) (*model.Streak, error) {
	if !model.ValidArea(area) {
		return nil, invalid("area", "unknown life area")
	}

	unlock := svc.lockKey(userID, area)
	defer unlock()

	var out model.Streak
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var streak model.Streak
		if err := tx.Where("user_id = ? AND area = ?", userID, area).First(&streak).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		next, err := SpendFreeze(streak, now)
		if err != nil {
			return err
		}
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	svc.logger.Info("streak freeze used",
		zap.String("user_id", userID),
		zap.String("area", area),
		zap.Int("remaining", out.FreezeCount))
	return &out, nil
}

// DailyLoginResult is the outcome of a RecordDailyLogin command.
type DailyLoginResult struct {
	ConsecutiveDays     int  `json:"consecutive_days"`
	BonusXP             int  `json:"bonus_xp"`
	AlreadyClaimedToday bool `json:"already_claimed_today"`
}

// RecordDailyLogin grants the consecutive-day login bonus. Idempotent per
// calendar day: the second call returns the existing record with no XP.
func (svc *Service) RecordDailyLogin(ctx context.Context, userID string, now time.Time) (*DailyLoginResult, error) {
	unlock := svc.lockKey(userID, "")
	defer unlock()

	today := dateOnly(now).Format("2006-01-02")
	yesterday := dateOnly(now).AddDate(0, 0, -1).Format("2006-01-02")

	res := &DailyLoginResult{}
	var totalXP int64
	var events []Event
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DailyLogin
		err := tx.Where("user_id = ? AND login_date = ?", userID, today).First(&existing).Error
		if err == nil {
			res.ConsecutiveDays = existing.ConsecutiveDays
			res.AlreadyClaimedToday = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		consecutive := 1
		var prior model.DailyLogin
		if err := tx.Where("user_id = ? AND login_date = ?", userID, yesterday).First(&prior).Error; err == nil {
			consecutive = prior.ConsecutiveDays + 1
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		bonus := LoginBonusXP(consecutive)
		record := &model.DailyLogin{
			UserID:          userID,
			LoginDate:       today,
			ConsecutiveDays: consecutive,
			BonusClaimed:    true,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		var profile model.Profile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		profile.TotalXP += int64(bonus)
		profile.MonthlyXP += int64(bonus)
		if lvl := ComputeLevel(profile.MonthlyXP, profile.CharacterLevel, svc.cfg.LevelXPBase); lvl > profile.CharacterLevel {
			profile.CharacterLevel = lvl
			events = append(events, levelUpEvent(ScopeCharacter, "", lvl))
		}
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		totalXP = profile.TotalXP
		res.ConsecutiveDays = consecutive
		res.BonusXP = bonus
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !res.AlreadyClaimedToday {
		svc.afterXPChange(ctx, userID, totalXP, events)
	}
	return res, nil
}

// AcceptQuest instantiates a template for the user. Daily quests are due
// tomorrow, weekly quests in seven days.
func (svc *Service) AcceptQuest(ctx context.Context, userID string, templateID int64, now time.Time) (*model.Quest, error) {
	var tpl model.QuestTemplate
	if err := svc.db.WithContext(ctx).Where("id = ? AND active = ?", templateID, true).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("template_id", "unknown or inactive template")
		}
		return nil, err
	}

	due := dateOnly(now).AddDate(0, 0, 1)
	if tpl.QuestType == model.QuestTypeWeekly {
		due = dateOnly(now).AddDate(0, 0, 7)
	}

	quest := &model.Quest{
		UserID:      userID,
		Title:       tpl.Title,
		Description: tpl.Description,
		Area:        tpl.Area,
		XPReward:    tpl.XPReward,
		QuestType:   tpl.QuestType,
		DueDate:     due,
	}
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dupes []model.Quest
		if err := tx.Select("id").
			Where("user_id = ? AND title = ? AND is_completed = ? AND is_expired = ?", userID, tpl.Title, false, false).
			Find(&dupes).Error; err != nil {
			return err
		}
		if len(dupes) > 0 {
			return invalid("template_id", "quest already accepted")
		}
		return tx.Create(quest).Error
	})
	if err != nil {
		return nil, err
	}
	svc.logger.Info("quest accepted",
		zap.String("user_id", userID),
		zap.String("title", tpl.Title))
	return quest, nil
}

// CompleteQuestResult is the outcome of a CompleteQuest command.
type CompleteQuestResult struct {
	Quest  model.Quest        `json:"quest"`
	Area   model.AreaProgress `json:"area"`
	Events []Event            `json:"events"`
}

// CompleteQuest marks the quest done and credits its XP to the area.
func (svc *Service) CompleteQuest(ctx context.Context, userID string, questID int64, now time.Time) (*CompleteQuestResult, error) {
	var quest model.Quest
	if err := svc.db.WithContext(ctx).Where("id = ? AND user_id = ?", questID, userID).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	unlock := svc.lockKey(userID, quest.Area)
	defer unlock()

	res := &CompleteQuestResult{}
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", questID, userID).First(&quest).Error; err != nil {
			return err
		}
		if quest.IsCompleted {
			return invalid("quest_id", "already completed")
		}
		if quest.IsExpired {
			return invalid("quest_id", "quest expired")
		}

		completedAt := now
		quest.IsCompleted = true
		quest.CompletedAt = &completedAt
		if err := tx.Save(&quest).Error; err != nil {
			return err
		}

		var ap model.AreaProgress
		if err := tx.Where("user_id = ? AND area = ?", userID, quest.Area).First(&ap).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		ap.TotalXP += int64(quest.XPReward)
		ap.WeeklyXP += int64(quest.XPReward)
		if lvl := ComputeLevel(ap.TotalXP, ap.Level, svc.cfg.LevelXPBase); lvl > ap.Level {
			ap.Level = lvl
			res.Events = append(res.Events, levelUpEvent(ScopeArea, quest.Area, lvl))
		}
		if err := tx.Save(&ap).Error; err != nil {
			return err
		}

		res.Events = append(res.Events, questCompletedEvent(quest.XPReward))
		res.Quest = quest
		res.Area = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.recordEvents(ctx, userID, res.Events)
	svc.logger.Info("quest completed",
		zap.String("user_id", userID),
		zap.Int64("quest_id", questID),
		zap.Int("xp_reward", res.Quest.XPReward))
	return res, nil
}

// RecommendQuests ranks active daily templates for the user. Read-only.
func (svc *Service) RecommendQuests(ctx context.Context, userID string, now time.Time, topN int) ([]Suggestion, error) {
	if topN <= 0 {
		topN = svc.cfg.RecommendTopN
	}
	tx := svc.db.WithContext(ctx)

	var areas []model.AreaProgress
	if err := tx.Where("user_id = ?", userID).Find(&areas).Error; err != nil {
		return nil, err
	}
	var streaks []model.Streak
	if err := tx.Where("user_id = ?", userID).Find(&streaks).Error; err != nil {
		return nil, err
	}
	var templates []model.QuestTemplate
	if err := tx.Where("active = ? AND quest_type = ?", true, model.QuestTypeDaily).
		Order("id").Find(&templates).Error; err != nil {
		return nil, err
	}
	var accepted []model.Quest
	if err := tx.Select("title").
		Where("user_id = ? AND created_at >= ?", userID, dateOnly(now)).
		Find(&accepted).Error; err != nil {
		return nil, err
	}
	acceptedTitles := make(map[string]bool, len(accepted))
	for _, q := range accepted {
		acceptedTitles[q.Title] = true
	}

	return Recommend(areas, streaks, templates, acceptedTitles, svc.cfg.WeeklyTargetXP, topN, now), nil
}

// Provision creates the profile, area progress and streak rows for a new
// user. Called once at registration; the engine treats missing rows as a
// data-integrity fault afterwards.
func (svc *Service) Provision(ctx context.Context, userID string, now time.Time) error {
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := &model.Profile{
			UserID:         userID,
			CharacterLevel: 1,
			MonthlyResetAt: firstOfMonth(now),
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		for _, area := range model.AllAreas {
			if err := tx.Create(&model.AreaProgress{UserID: userID, Area: area, Level: 1}).Error; err != nil {
				return err
			}
			if err := tx.Create(&model.Streak{UserID: userID, Area: area}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// loadSnapshot fetches the three rows every XP command touches.
func loadSnapshot(tx *gorm.DB, userID, area string) (*model.AreaProgress, *model.Streak, *model.Profile, error) {
	var ap model.AreaProgress
	if err := tx.Where("user_id = ? AND area = ?", userID, area).First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}
	var streak model.Streak
	if err := tx.Where("user_id = ? AND area = ?", userID, area).First(&streak).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}
	var profile model.Profile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}
	return &ap, &streak, &profile, nil
}

// afterXPChange refreshes the leaderboard entry and journals events.
// Best-effort: a cache hiccup must not fail the command.
func (svc *Service) afterXPChange(ctx context.Context, userID string, totalXP int64, events []Event) {
	if svc.cache != nil {
		if err := svc.cache.ZAdd(ctx, LeaderboardKey, float64(totalXP), userID); err != nil {
			svc.logger.Warn("leaderboard update failed", zap.Error(err))
		}
	}
	svc.recordEvents(ctx, userID, events)
}

func (svc *Service) recordEvents(_ context.Context, userID string, events []Event) {
	if svc.audit == nil {
		return
	}
	for _, ev := range events {
		svc.audit.Record(audit.Entry{
			UserID:    userID,
			EventType: ev.Type,
			Payload:   ev,
		})
	}
}

func firstOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
