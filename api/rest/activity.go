package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veyralune/lifequest/game/progression"
	mw "github.com/veyralune/lifequest/middleware"
	"github.com/veyralune/lifequest/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityHandler handles activity logging, streak freezes and daily
// login endpoints.
type ActivityHandler struct {
	db     *gorm.DB
	prog   *progression.Service
	logger *zap.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(db *gorm.DB, prog *progression.Service, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{db: db, prog: prog, logger: logger}
}

type logActivityRequest struct {
	Area  string `json:"area"  binding:"required"`
	Name  string `json:"name"  binding:"required,min=1,max=128"`
	XP    int    `json:"xp"    binding:"required"`
	Notes string `json:"notes"`
}

// Log handles POST /api/activities.
func (h *ActivityHandler) Log(c *gin.Context) {
	userID := mw.GetUserID(c)

	var req logActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.prog.LogActivity(c.Request.Context(), userID, req.Area, req.Name, req.XP, req.Notes, time.Now())
	if err != nil {
		respondProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// History handles GET /api/activities?area=&limit=.
func (h *ActivityHandler) History(c *gin.Context) {
	userID := mw.GetUserID(c)

	q := h.db.Where("user_id = ?", userID)
	if area := c.Query("area"); area != "" {
		if !model.ValidArea(area) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown area"})
			return
		}
		q = q.Where("area = ?", area)
	}

	var logs []model.ActivityLog
	if err := q.Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": logs})
}

// UseFreeze handles POST /api/streaks/:area/freeze.
func (h *ActivityHandler) UseFreeze(c *gin.Context) {
	userID := mw.GetUserID(c)
	area := c.Param("area")

	streak, err := h.prog.UseStreakFreeze(c.Request.Context(), userID, area, time.Now())
	if err != nil {
		respondProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

// DailyLogin handles POST /api/logins.
func (h *ActivityHandler) DailyLogin(c *gin.Context) {
	userID := mw.GetUserID(c)

	res, err := h.prog.RecordDailyLogin(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// respondProgressionError maps engine errors onto HTTP statuses.
func respondProgressionError(c *gin.Context, err error) {
	switch {
	case progression.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, progression.ErrNoFreezeAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "no streak freeze available"})
	case errors.Is(err, progression.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "progress record not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
