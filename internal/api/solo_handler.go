package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wfunc/escape-room/internal/errors"
	"github.com/wfunc/escape-room/internal/models"
	"github.com/wfunc/escape-room/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SoloHandler 单人模式处理器
// 单人对局不经过房间层，直接走HTTP落库
type SoloHandler struct {
	repos *repository.Manager
	log   *zap.Logger
}

// NewSoloHandler 创建单人模式处理器
func NewSoloHandler(repos *repository.Manager, log *zap.Logger) *SoloHandler {
	return &SoloHandler{
		repos: repos,
		log:   log,
	}
}

// CreateSoloRequest 创建单人对局请求
type CreateSoloRequest struct {
	UserID     string `json:"userId" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Difficulty string `json:"difficulty"`
}

// CompleteSoloRequest 结束单人对局请求
type CompleteSoloRequest struct {
	GameID    string `json:"gameId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Success   bool   `json:"success"`
	Score     int    `json:"score"`
	Duration  int    `json:"duration"`
	HintsUsed int    `json:"hintsUsed"`
}

// CreateSoloGame 创建并立即开始一局单人对局
func (h *SoloHandler) CreateSoloGame(c *gin.Context) {
	var req CreateSoloRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewErrorResponse(errors.Wrap(err, errors.ErrInvalidParam), ""))
		return
	}

	switch req.Difficulty {
	case "easy", "normal", "hard":
	default:
		req.Difficulty = "normal"
	}

	ctx := c.Request.Context()
	if _, err := h.repos.User().GetOrCreate(ctx, req.UserID, req.Username); err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseInsert))
		return
	}

	now := time.Now()
	session := &models.GameSession{
		SessionID:  uuid.NewString(),
		HostID:     req.UserID,
		Difficulty: req.Difficulty,
		Mode:       models.ModeSolo,
		Status:     models.SessionStatusPlaying,
		StartedAt:  &now,
	}
	if err := h.repos.GameSession().Create(ctx, session); err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseInsert))
		return
	}

	participant := &models.Participant{
		SessionID: session.SessionID,
		UserID:    req.UserID,
		Username:  req.Username,
	}
	if err := h.repos.GameSession().AddParticipant(ctx, participant); err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseInsert))
		return
	}

	h.log.Info("单人对局已创建",
		zap.String("session_id", session.SessionID),
		zap.String("user_id", req.UserID),
		zap.String("difficulty", req.Difficulty),
	)

	c.JSON(http.StatusOK, gin.H{
		"gameId": session.SessionID,
		"status": "created",
	})
}

// CompleteSoloGame 结束单人对局并累加玩家统计
func (h *SoloHandler) CompleteSoloGame(c *gin.Context) {
	var req CompleteSoloRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewErrorResponse(errors.Wrap(err, errors.ErrInvalidParam), ""))
		return
	}

	ctx := c.Request.Context()

	session, err := h.repos.GameSession().FindBySessionID(ctx, req.GameID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errors.NewErrorResponse(errors.New(errors.ErrNotFound, "game not found"), ""))
			return
		}
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}
	if session.Status == models.SessionStatusFinished {
		c.JSON(http.StatusBadRequest, errors.NewErrorResponse(errors.New(errors.ErrRoomFinished), ""))
		return
	}

	if err := h.repos.GameSession().Finish(ctx, req.GameID, req.Success, req.Score, req.Duration); err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseUpdate))
		return
	}

	if err := h.repos.User().UpdateStats(ctx, req.UserID, req.Score, req.Duration, req.HintsUsed, req.Success); err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseUpdate))
		return
	}

	h.log.Info("单人对局已结束",
		zap.String("session_id", req.GameID),
		zap.Bool("success", req.Success),
		zap.Int("score", req.Score),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":  "completed",
		"score":   req.Score,
		"success": req.Success,
	})
}

// respondError 按错误码映射HTTP状态
func (h *SoloHandler) respondError(c *gin.Context, appErr *errors.AppError) {
	h.log.Error("单人对局处理失败",
		zap.String("path", c.FullPath()),
		zap.Error(appErr),
	)
	c.JSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, ""))
}
