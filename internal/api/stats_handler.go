package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/escape-room/internal/errors"
	"github.com/wfunc/escape-room/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsHandler 排行榜与统计查询处理器
type StatsHandler struct {
	repos *repository.Manager
	log   *zap.Logger
}

// NewStatsHandler 创建统计查询处理器
func NewStatsHandler(repos *repository.Manager, log *zap.Logger) *StatsHandler {
	return &StatsHandler{
		repos: repos,
		log:   log,
	}
}

// Leaderboard 按总分排序的玩家排行榜
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	limit := queryInt(c, "limit", 10)

	users, err := h.repos.User().TopByScore(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	rows := make([]gin.H, 0, len(users))
	for i, u := range users {
		rows = append(rows, gin.H{
			"rank":       i + 1,
			"userId":     u.UserID,
			"username":   u.Username,
			"totalScore": u.TotalScore,
			"totalGames": u.TotalGames,
			"totalWins":  u.TotalWins,
			"bestScore":  u.BestScore,
			"bestTime":   u.BestTime,
		})
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

// RecentGames 最近结束的对局
func (h *StatsHandler) RecentGames(c *gin.Context) {
	limit := queryInt(c, "limit", 10)

	sessions, err := h.repos.GameSession().RecentFinished(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	rows := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, gin.H{
			"sessionId":  s.SessionID,
			"roomCode":   s.RoomCode,
			"mode":       s.Mode,
			"difficulty": s.Difficulty,
			"success":    s.Success,
			"score":      s.FinalScore,
			"duration":   s.Duration,
			"endedAt":    s.EndedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"recent": rows})
}

// UserStats 单个玩家的聚合统计
func (h *StatsHandler) UserStats(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.repos.User().FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errors.NewErrorResponse(errors.New(errors.ErrNotFound, "user not found"), ""))
			return
		}
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"userId":         user.UserID,
			"username":       user.Username,
			"totalGames":     user.TotalGames,
			"totalWins":      user.TotalWins,
			"totalScore":     user.TotalScore,
			"totalHintsUsed": user.TotalHintsUsed,
			"bestScore":      user.BestScore,
			"bestTime":       user.BestTime,
			"lastPlayedAt":   user.LastPlayedAt,
		},
	})
}

// GameAnalytics 单局的事件明细与统计
func (h *StatsHandler) GameAnalytics(c *gin.Context) {
	sessionID := c.Param("id")
	ctx := c.Request.Context()

	session, err := h.repos.GameSession().FindBySessionID(ctx, sessionID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errors.NewErrorResponse(errors.New(errors.ErrNotFound, "session not found"), ""))
			return
		}
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	events, err := h.repos.PuzzleEvent().FindBySessionID(ctx, sessionID)
	if err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	participants, err := h.repos.GameSession().Participants(ctx, sessionID)
	if err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analytics": gin.H{
			"session":      session,
			"participants": participants,
			"events":       events,
		},
	})
}

// UserAnalytics 玩家分谜题统计与历史对局
func (h *StatsHandler) UserAnalytics(c *gin.Context) {
	userID := c.Param("id")
	ctx := c.Request.Context()

	stats, err := h.repos.PuzzleEvent().StatsByUserID(ctx, userID)
	if err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	sessions, err := h.repos.GameSession().FinishedByUserID(ctx, userID, queryInt(c, "limit", 10))
	if err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrDatabaseQuery))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analytics": gin.H{
			"puzzleStats": stats,
			"recentGames": sessions,
		},
	})
}

// respondError 按错误码映射HTTP状态
func (h *StatsHandler) respondError(c *gin.Context, appErr *errors.AppError) {
	h.log.Error("统计查询失败",
		zap.String("path", c.FullPath()),
		zap.Error(appErr),
	)
	c.JSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, ""))
}

// queryInt 读取整数查询参数
func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
