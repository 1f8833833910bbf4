package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/escape-room/internal/models"
	"gorm.io/gorm"
)

// GameSessionRepositoryTestSuite 对局仓储测试套件
type GameSessionRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo GameSessionRepository
}

func (suite *GameSessionRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewGameSessionRepository(suite.db)
}

func (suite *GameSessionRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestGameSessionRepository_Lifecycle 测试对局创建、开始、结束
func (suite *GameSessionRepositoryTestSuite) TestGameSessionRepository_Lifecycle() {
	ctx := context.Background()

	session := &models.GameSession{
		SessionID:  "session-1",
		RoomCode:   "ABC123",
		HostID:     "host-1",
		Difficulty: "normal",
		Mode:       models.ModeMultiplayer,
		Status:     models.SessionStatusWaiting,
	}
	err := suite.repo.Create(ctx, session)
	assert.NoError(suite.T(), err)

	// 开始
	err = suite.repo.Start(ctx, "session-1")
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindBySessionID(ctx, "session-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SessionStatusPlaying, found.Status)
	assert.NotNil(suite.T(), found.StartedAt)

	// 结束
	err = suite.repo.Finish(ctx, "session-1", true, 780, 110)
	assert.NoError(suite.T(), err)

	found, err = suite.repo.FindBySessionID(ctx, "session-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SessionStatusFinished, found.Status)
	assert.True(suite.T(), found.Success)
	assert.Equal(suite.T(), 780, found.FinalScore)
	assert.Equal(suite.T(), 110, found.Duration)
	assert.NotNil(suite.T(), found.EndedAt)
}

// TestGameSessionRepository_Participants 测试对局成员
func (suite *GameSessionRepositoryTestSuite) TestGameSessionRepository_Participants() {
	ctx := context.Background()

	session := &models.GameSession{
		SessionID: "session-2",
		RoomCode:  "XYZ789",
		Status:    models.SessionStatusPlaying,
	}
	assert.NoError(suite.T(), suite.repo.Create(ctx, session))

	for i, role := range []string{"Investigator", "Analyst"} {
		p := &models.Participant{
			SessionID: "session-2",
			UserID:    fmt.Sprintf("user-%d", i+1),
			Username:  fmt.Sprintf("Player%d", i+1),
			Role:      role,
		}
		assert.NoError(suite.T(), suite.repo.AddParticipant(ctx, p))
	}

	participants, err := suite.repo.Participants(ctx, "session-2")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), participants, 2)
	assert.Equal(suite.T(), "Investigator", participants[0].Role)
	assert.Equal(suite.T(), "Analyst", participants[1].Role)
}

// TestGameSessionRepository_RecentFinished 测试最近结束对局查询
func (suite *GameSessionRepositoryTestSuite) TestGameSessionRepository_RecentFinished() {
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		session := &models.GameSession{
			SessionID: fmt.Sprintf("session-r%d", i),
			RoomCode:  fmt.Sprintf("ROOM%02d", i),
			Status:    models.SessionStatusWaiting,
		}
		assert.NoError(suite.T(), suite.repo.Create(ctx, session))
		assert.NoError(suite.T(), suite.repo.Finish(ctx, session.SessionID, i%2 == 0, i*100, i*60))
	}

	// 还有一局未结束，不应出现在结果中
	playing := &models.GameSession{
		SessionID: "session-playing",
		Status:    models.SessionStatusPlaying,
	}
	assert.NoError(suite.T(), suite.repo.Create(ctx, playing))

	recent, err := suite.repo.RecentFinished(ctx, 10)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), recent, 3)
	for _, s := range recent {
		assert.Equal(suite.T(), models.SessionStatusFinished, s.Status)
	}
}

// TestGameSessionRepository_FinishedByUserID 测试玩家对局历史
func (suite *GameSessionRepositoryTestSuite) TestGameSessionRepository_FinishedByUserID() {
	ctx := context.Background()

	session := &models.GameSession{
		SessionID: "session-h1",
		RoomCode:  "HIST01",
		Status:    models.SessionStatusWaiting,
	}
	assert.NoError(suite.T(), suite.repo.Create(ctx, session))
	assert.NoError(suite.T(), suite.repo.AddParticipant(ctx, &models.Participant{
		SessionID: "session-h1",
		UserID:    "user-hist",
		Username:  "Historian",
	}))
	assert.NoError(suite.T(), suite.repo.Finish(ctx, "session-h1", true, 640, 180))

	history, err := suite.repo.FinishedByUserID(ctx, "user-hist", 10)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), history, 1)
	assert.Equal(suite.T(), "session-h1", history[0].SessionID)

	// 未参与的玩家查不到
	none, err := suite.repo.FinishedByUserID(ctx, "user-none", 10)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), none)
}

func TestGameSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(GameSessionRepositoryTestSuite))
}
