package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/veyralune/lifequest/cache"
	"github.com/veyralune/lifequest/game/progression"
	"github.com/veyralune/lifequest/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RankingHandler handles leaderboard REST endpoints.
type RankingHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
}

// NewRankingHandler creates a RankingHandler.
func NewRankingHandler(db *gorm.DB, c cache.Cache, logger *zap.Logger) *RankingHandler {
	return &RankingHandler{db: db, cache: c, logger: logger}
}

const rankingTop = 100

// RankEntry is one row in the leaderboard.
type RankEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	CharacterName string `json:"character_name"`
	Level         int    `json:"level"`
	TotalXP       int64  `json:"total_xp"`
}

// TopXP returns the top users sorted by lifetime XP.
// GET /api/ranking/xp?limit=20
func (h *RankingHandler) TopXP(c *gin.Context) {
	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= rankingTop {
		limit = l
	}

	// Try cached ranking from sorted set.
	ctx := c.Request.Context()
	members, err := h.cache.ZRevRange(ctx, progression.LeaderboardKey, 0, int64(limit-1))
	if err == nil && len(members) > 0 {
		entries := make([]RankEntry, 0, len(members))
		for i, m := range members {
			score, _ := h.cache.ZScore(ctx, progression.LeaderboardKey, m)
			entries = append(entries, RankEntry{
				Rank:    i + 1,
				UserID:  m,
				TotalXP: int64(score),
			})
		}
		// Enrich with character names.
		h.enrichNames(entries)
		c.JSON(http.StatusOK, gin.H{"ranking": entries})
		return
	}

	// Fall back to DB query.
	var profiles []model.Profile
	h.db.Select("user_id, total_xp, character_level").
		Order("total_xp DESC").
		Limit(limit).
		Find(&profiles)

	entries := make([]RankEntry, len(profiles))
	for i, p := range profiles {
		entries[i] = RankEntry{
			Rank:    i + 1,
			UserID:  p.UserID,
			Level:   p.CharacterLevel,
			TotalXP: p.TotalXP,
		}
		// Refresh cache entry.
		_ = h.cache.ZAdd(ctx, progression.LeaderboardKey, float64(p.TotalXP), p.UserID)
	}
	h.enrichNames(entries)
	c.JSON(http.StatusOK, gin.H{"ranking": entries})
}

func (h *RankingHandler) enrichNames(entries []RankEntry) {
	if len(entries) == 0 {
		return
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}

	var users []model.User
	h.db.Select("id, character_name").Where("id IN ?", ids).Find(&users)
	nameMap := make(map[string]string, len(users))
	for _, u := range users {
		nameMap[u.ID] = u.CharacterName
	}

	var profiles []model.Profile
	h.db.Select("user_id, character_level, total_xp").Where("user_id IN ?", ids).Find(&profiles)
	levelMap := make(map[string]model.Profile, len(profiles))
	for _, p := range profiles {
		levelMap[p.UserID] = p
	}

	for i := range entries {
		if name, ok := nameMap[entries[i].UserID]; ok {
			entries[i].CharacterName = name
		}
		if p, ok := levelMap[entries[i].UserID]; ok {
			entries[i].Level = p.CharacterLevel
			entries[i].TotalXP = p.TotalXP
		}
	}
}
