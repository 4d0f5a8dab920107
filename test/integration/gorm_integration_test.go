package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/repository/specification"
	"ai-policyassist-be/internal/repository/unitofwork"
	"ai-policyassist-be/pkg/database"

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

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatTurnRepository())
	assert.NotNil(t, uow.DocumentEmbeddingRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Chat Session Repository", func(t *testing.T) {
		count, err := uow.ChatSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Chat session count: %d", count)
	})

	t.Run("Check Document Embedding Repository", func(t *testing.T) {
		count, err := uow.DocumentEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Document embedding count: %d", count)
	})
}

func TestSessionLedgerRoundTrip(t *testing.T) {
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

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)
	userId := uuid.New()

	session := &entity.ChatSession{
		UserId:        userId,
		SessionNumber: 1,
		Current:       true,
		Active:        true,
	}
	err = uow.ChatSessionRepository().Create(ctx, session)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.Id)

	found, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.BySessionNumber{SessionNumber: 1},
		specification.NotDeleted{},
	)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.True(t, found.Current)
	}

	max, err := uow.ChatSessionRepository().MaxSessionNumber(ctx, userId)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), max)

	// Soft delete keeps the row visible to the max query.
	err = uow.ChatSessionRepository().SoftDelete(ctx, userId, 1)
	assert.NoError(t, err)

	max, err = uow.ChatSessionRepository().MaxSessionNumber(ctx, userId)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), max)

	found, err = uow.ChatSessionRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.BySessionNumber{SessionNumber: 1},
		specification.NotDeleted{},
	)
	assert.NoError(t, err)
	assert.Nil(t, found)
}
