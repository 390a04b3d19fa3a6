package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veyralune/lifequest/game/progression"
	mw "github.com/veyralune/lifequest/middleware"
	"github.com/veyralune/lifequest/model"
	"gorm.io/gorm"
)

// ProgressHandler serves the user's progression overview.
type ProgressHandler struct {
	db *gorm.DB
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(db *gorm.DB) *ProgressHandler {
	return &ProgressHandler{db: db}
}

// streakView decorates a streak with its derived at-risk flag.
type streakView struct {
	model.Streak
	AtRisk bool `json:"at_risk"`
}

// Overview handles GET /api/progress.
func (h *ProgressHandler) Overview(c *gin.Context) {
	userID := mw.GetUserID(c)

	var profile model.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	var areas []model.AreaProgress
	if err := h.db.Where("user_id = ?", userID).Order("area").Find(&areas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	var streaks []model.Streak
	if err := h.db.Where("user_id = ?", userID).Order("area").Find(&streaks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	now := time.Now()
	views := make([]streakView, len(streaks))
	for i, s := range streaks {
		views[i] = streakView{Streak: s, AtRisk: progression.StreakAtRisk(s, now)}
	}

	var badges []model.UserBadge
	if err := h.db.Where("user_id = ?", userID).Order("won_at DESC").Find(&badges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"areas":   areas,
		"streaks": views,
		"badges":  badges,
	})
}
