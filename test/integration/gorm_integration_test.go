package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/constant"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.AudioResourceRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Chat Session Repository", func(t *testing.T) {
		count, err := uow.ChatSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChatSession count: %d", count)
	})

	t.Run("Check Audio Embedding Repository", func(t *testing.T) {
		// Count implies the table and vector column exist
		count, err := uow.AudioEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("AudioEmbedding count: %d", count)
	})

	t.Run("Check Transactional Turn Append", func(t *testing.T) {
		ctx := context.Background()

		session := &entity.ChatSession{
			Id:       uuid.New(),
			IsActive: true,
		}
		err := uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		// Transaction Test: both turns land or neither does
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		messages := []*entity.ChatMessage{
			{
				Id:            uuid.New(),
				ChatSessionId: session.Id,
				Role:          constant.MessageRoleUser,
				Content:       "integration test question",
			},
			{
				Id:            uuid.New(),
				ChatSessionId: session.Id,
				Role:          constant.MessageRoleAssistant,
				Content:       "integration test answer",
			},
		}
		err = uow.ChatMessageRepository().CreateBulk(ctx, messages)
		assert.NoError(t, err)

		recent, err := uow.ChatMessageRepository().FindRecentBySessionId(ctx, session.Id, 10)
		assert.NoError(t, err)
		assert.Len(t, recent, 2)

		// Rolled back by the deferred Rollback, nothing persists
	})
}
