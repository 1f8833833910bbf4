package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wfunc/escape-room/internal/models"
)

// TestChatRepository_SaveAndFind 测试聊天消息保存与查询
func TestChatRepository_SaveAndFind(t *testing.T) {
	db := SetupTestDB()
	defer CleanupTestDB(db)

	repo := NewChatRepository(db)
	ctx := context.Background()

	messages := []*models.ChatMessage{
		{SessionID: "session-1", UserID: "user-1", Username: "Alice", Message: "found a key"},
		{SessionID: "session-1", UserID: "user-2", Username: "Bob", Message: "check the piano"},
		{SessionID: "session-2", UserID: "user-3", Username: "Carol", Message: "other room"},
	}
	for _, m := range messages {
		assert.NoError(t, repo.Save(ctx, m))
	}

	found, err := repo.FindBySessionID(ctx, "session-1", 0)
	assert.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "found a key", found[0].Message)
	assert.Equal(t, "check the piano", found[1].Message)
}
