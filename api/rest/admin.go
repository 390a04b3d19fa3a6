package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veyralune/lifequest/game/progression"
	"github.com/veyralune/lifequest/model"
	"github.com/veyralune/lifequest/scheduler"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by AdminAuth middleware.
type AdminHandler struct {
	db     *gorm.DB
	prog   *progression.Service
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, prog *progression.Service, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, prog: prog, sched: sched, logger: logger}
}

// RunBatch triggers one maintenance job by name, outside its schedule.
// POST /api/admin/batch/:job
func (h *AdminHandler) RunBatch(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	switch job := c.Param("job"); job {
	case "generate-quests":
		n, err := h.prog.GenerateDailyQuests(ctx, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job": job, "quests_created": n})
	case "reset-weekly":
		if err := h.prog.ResetWeeklyXP(ctx, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job": job, "ok": true})
	case "reset-monthly":
		if err := h.prog.ResetMonthlyXP(ctx, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job": job, "ok": true})
	case "expire-quests":
		if err := h.prog.ExpireOverdueQuests(ctx, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job": job, "ok": true})
	case "refresh-leaderboard":
		n, err := h.prog.RefreshLeaderboard(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job": job, "refreshed": n})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown job"})
	}
}

// Metrics returns basic service counters.
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	var users, openQuests int64
	h.db.Model(&model.User{}).Count(&users)
	h.db.Model(&model.Quest{}).Where("is_completed = ? AND is_expired = ?", false, false).Count(&openQuests)
	c.JSON(http.StatusOK, gin.H{
		"users":           users,
		"open_quests":     openQuests,
		"scheduler_tasks": h.sched.ListTickers(),
	})
}

// ListSchedulerTasks returns names of all registered ticker tasks.
// GET /api/admin/scheduler
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.ListTickers()})
}

// BanUser disables or re-enables a user account.
// POST /api/admin/users/:id/ban
func (h *AdminHandler) BanUser(c *gin.Context) {
	userID := c.Param("id")
	var req struct {
		Ban bool `json:"ban"`
	}
	_ = c.ShouldBindJSON(&req)

	status := 1
	if req.Ban {
		status = 0
	}
	result := h.db.Model(&model.User{}).Where("id = ?", userID).Update("status", status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	h.logger.Info("admin updated user status", zap.String("user_id", userID), zap.Int("status", status))
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
}

// AdminAuth returns a middleware that checks the X-Admin-Key header.
// WARNING: if adminKey is empty all admin endpoints are disabled (503) so the
// server cannot be accidentally deployed without protection. Set a non-empty
// server.admin_key in config to enable admin routes.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "admin endpoints disabled: set server.admin_key in config"})
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if key != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
