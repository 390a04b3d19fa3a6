package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veyralune/lifequest/game/progression"
	mw "github.com/veyralune/lifequest/middleware"
	"github.com/veyralune/lifequest/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestHandler handles quest REST endpoints.
type QuestHandler struct {
	db     *gorm.DB
	prog   *progression.Service
	logger *zap.Logger
}

// NewQuestHandler creates a QuestHandler.
func NewQuestHandler(db *gorm.DB, prog *progression.Service, logger *zap.Logger) *QuestHandler {
	return &QuestHandler{db: db, prog: prog, logger: logger}
}

// List handles GET /api/quests?completed=true|false.
func (h *QuestHandler) List(c *gin.Context) {
	userID := mw.GetUserID(c)

	q := h.db.Where("user_id = ?", userID)
	if v := c.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completed flag"})
			return
		}
		q = q.Where("is_completed = ?", completed)
	}

	var quests []model.Quest
	if err := q.Order("due_date").Find(&quests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

type acceptQuestRequest struct {
	TemplateID int64 `json:"template_id" binding:"required"`
}

// Accept handles POST /api/quests.
func (h *QuestHandler) Accept(c *gin.Context) {
	userID := mw.GetUserID(c)

	var req acceptQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quest, err := h.prog.AcceptQuest(c.Request.Context(), userID, req.TemplateID, time.Now())
	if err != nil {
		respondProgressionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quest": quest})
}

// Complete handles POST /api/quests/:id/complete.
func (h *QuestHandler) Complete(c *gin.Context) {
	userID := mw.GetUserID(c)
	questID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return
	}

	res, err := h.prog.CompleteQuest(c.Request.Context(), userID, questID, time.Now())
	if err != nil {
		respondProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Recommended handles GET /api/quests/recommended?limit=N.
func (h *QuestHandler) Recommended(c *gin.Context) {
	userID := mw.GetUserID(c)

	limit := 0
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 20 {
		limit = l
	}

	suggestions, err := h.prog.RecommendQuests(c.Request.Context(), userID, time.Now(), limit)
	if err != nil {
		respondProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Templates handles GET /api/quests/templates.
func (h *QuestHandler) Templates(c *gin.Context) {
	var templates []model.QuestTemplate
	if err := h.db.Where("active = ?", true).Order("id").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}
