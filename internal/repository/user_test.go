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

// UserRepositoryTestSuite 玩家统计仓储测试套件
type UserRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo UserRepository
}

func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewUserRepository(suite.db)
}

func (suite *UserRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestUserRepository_Create 测试创建玩家
func (suite *UserRepositoryTestSuite) TestUserRepository_Create() {
	ctx := context.Background()

	user := &models.User{
		UserID:   "user-1",
		Username: "Alice",
	}

	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), user.ID)

	// 验证数据
	found, err := suite.repo.FindByUserID(ctx, "user-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Alice", found.Username)
}

// TestUserRepository_GetOrCreate 测试查找或创建
func (suite *UserRepositoryTestSuite) TestUserRepository_GetOrCreate() {
	ctx := context.Background()

	// 第一次调用创建
	user, err := suite.repo.GetOrCreate(ctx, "user-2", "Bob")
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), user.ID)
	assert.Equal(suite.T(), "Bob", user.Username)

	// 第二次调用返回同一条记录
	again, err := suite.repo.GetOrCreate(ctx, "user-2", "Bob")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, again.ID)

	// 改名后更新用户名
	renamed, err := suite.repo.GetOrCreate(ctx, "user-2", "Bobby")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, renamed.ID)
	assert.Equal(suite.T(), "Bobby", renamed.Username)
}

// TestUserRepository_UpdateStats 测试累加对局统计
func (suite *UserRepositoryTestSuite) TestUserRepository_UpdateStats() {
	ctx := context.Background()

	_, err := suite.repo.GetOrCreate(ctx, "user-3", "Carol")
	assert.NoError(suite.T(), err)

	// 第一局：通关
	err = suite.repo.UpdateStats(ctx, "user-3", 800, 100, 1, true)
	assert.NoError(suite.T(), err)

	user, err := suite.repo.FindByUserID(ctx, "user-3")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, user.TotalGames)
	assert.Equal(suite.T(), 1, user.TotalWins)
	assert.Equal(suite.T(), 800, user.TotalScore)
	assert.Equal(suite.T(), 1, user.TotalHintsUsed)
	assert.NotNil(suite.T(), user.BestScore)
	assert.Equal(suite.T(), 800, *user.BestScore)
	assert.NotNil(suite.T(), user.BestTime)
	assert.Equal(suite.T(), 100, *user.BestTime)
	assert.NotNil(suite.T(), user.LastPlayedAt)

	// 第二局：超时失败，最佳成绩不变
	err = suite.repo.UpdateStats(ctx, "user-3", 0, 600, 2, false)
	assert.NoError(suite.T(), err)

	user, err = suite.repo.FindByUserID(ctx, "user-3")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, user.TotalGames)
	assert.Equal(suite.T(), 1, user.TotalWins)
	assert.Equal(suite.T(), 800, user.TotalScore)
	assert.Equal(suite.T(), 3, user.TotalHintsUsed)
	assert.Equal(suite.T(), 800, *user.BestScore)
	assert.Equal(suite.T(), 100, *user.BestTime)

	// 第三局：更快的通关刷新最佳时长
	err = suite.repo.UpdateStats(ctx, "user-3", 900, 50, 0, true)
	assert.NoError(suite.T(), err)

	user, err = suite.repo.FindByUserID(ctx, "user-3")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 900, *user.BestScore)
	assert.Equal(suite.T(), 50, *user.BestTime)
}

// TestUserRepository_TopByScore 测试排行榜查询
func (suite *UserRepositoryTestSuite) TestUserRepository_TopByScore() {
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		user := &models.User{
			UserID:     fmt.Sprintf("user-top-%d", i),
			Username:   fmt.Sprintf("Player%d", i),
			TotalScore: i * 100,
		}
		assert.NoError(suite.T(), suite.repo.Create(ctx, user))
	}

	top, err := suite.repo.TopByScore(ctx, 3)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), top, 3)
	assert.Equal(suite.T(), 500, top[0].TotalScore)
	assert.Equal(suite.T(), 400, top[1].TotalScore)
	assert.Equal(suite.T(), 300, top[2].TotalScore)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
