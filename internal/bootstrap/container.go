package bootstrap

import (
	"ai-policyassist-be/internal/config"
	"ai-policyassist-be/internal/constant"
	"ai-policyassist-be/internal/controller"
	"ai-policyassist-be/internal/pkg/logger"
	"ai-policyassist-be/internal/repository/unitofwork"
	"ai-policyassist-be/internal/service"
	"ai-policyassist-be/pkg/agent"
	"ai-policyassist-be/pkg/artifact"
	"ai-policyassist-be/pkg/embedding"
	"ai-policyassist-be/pkg/gate"
	llmollama "ai-policyassist-be/pkg/llm/ollama"
	"ai-policyassist-be/pkg/rerank/jina"
	"ai-policyassist-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController   controller.ISessionController
	AssistantController controller.IAssistantController

	// Background services (run from main)
	ConsumerService service.IConsumerService

	// Core components, exposed for tools and tests
	RetrievalEngine *retrieval.Engine
	Logger          logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// External collaborators: embedding, scoring, reasoning
	embeddingProvider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbdModel)
	llmProvider := llmollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaLLMModel)
	scorer := jina.NewJinaScorer(cfg.Keys.JinaReranker, cfg.Ai.RerankBaseURL, cfg.Ai.RerankModel)

	// Core components
	vectorIndex := retrieval.NewPgVectorIndex(uowFactory, embeddingProvider)
	retrievalEngine := retrieval.NewEngine(vectorIndex, scorer, sysLogger)
	turnGate := gate.NewGate(llmProvider, sysLogger)
	resolver := artifact.NewResolver(sysLogger)
	runner := agent.NewLLMRunner(llmProvider, retrievalEngine, constant.ToolCatalog, cfg.Ai.RetrievalTopK)

	// Services
	sessionService := service.NewSessionService(uowFactory, sysLogger)
	assistantService := service.NewAssistantService(
		sessionService,
		turnGate,
		runner,
		resolver,
		pubSub,
		cfg.App.AnsweredTopic,
		cfg.App.StaticRoot,
		cfg.Ai.HistoryLimit,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.App.AnsweredTopic, sysLogger)

	return &Container{
		SessionController:   controller.NewSessionController(sessionService),
		AssistantController: controller.NewAssistantController(assistantService),
		ConsumerService:     consumerService,
		RetrievalEngine:     retrievalEngine,
		Logger:              sysLogger,
	}
}
