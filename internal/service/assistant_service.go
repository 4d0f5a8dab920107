package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ai-policyassist-be/internal/constant"
	"ai-policyassist-be/internal/dto"
	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/pkg/logger"
	"ai-policyassist-be/pkg/agent"
	"ai-policyassist-be/pkg/artifact"
	"ai-policyassist-be/pkg/gate"
	"ai-policyassist-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IAssistantService interface {
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ListFiles(userId uuid.UUID, sessionNumber, turnNumber int64) ([]string, error)
	LocateArtifact(userId uuid.UUID, sessionNumber, turnNumber int64, filename string) (*dto.ArtifactResponse, error)
}

type assistantService struct {
	sessionService ISessionService
	turnGate       *gate.Gate
	runner         agent.Runner
	resolver       *artifact.Resolver
	pubSub         *gochannel.GoChannel
	answeredTopic  string
	staticRoot     string
	historyLimit   int
	logger         logger.ILogger
}

func NewAssistantService(
	sessionService ISessionService,
	turnGate *gate.Gate,
	runner agent.Runner,
	resolver *artifact.Resolver,
	pubSub *gochannel.GoChannel,
	answeredTopic string,
	staticRoot string,
	historyLimit int,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		sessionService: sessionService,
		turnGate:       turnGate,
		runner:         runner,
		resolver:       resolver,
		pubSub:         pubSub,
		answeredTopic:  answeredTopic,
		staticRoot:     staticRoot,
		historyLimit:   historyLimit,
		logger:         log,
	}
}

// SendChat runs one full turn: record the question, classify it against
// recent history, then either short-circuit with the gate's fallback or
// hand the working context to the downstream agent and record its answer.
func (s *assistantService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	turn, err := s.sessionService.CreateTurn(ctx, userId, request.SessionNumber, request.Query)
	if err != nil {
		return nil, err
	}

	sharedFolder := s.sharedFolder(userId, request.SessionNumber, turn.TurnNumber)
	if err := os.MkdirAll(sharedFolder, 0o755); err != nil {
		return nil, fmt.Errorf("create shared folder: %w", err)
	}

	history, err := s.sessionService.RecentHistory(ctx, userId, request.SessionNumber, turn.TurnNumber, s.historyLimit)
	if err != nil {
		return nil, err
	}
	historyMessages := toLLMMessages(history)

	result := s.turnGate.Classify(ctx, historyMessages, request.Query, constant.ToolCatalog)

	if !result.IntentDetected {
		// Short-circuit: the fallback text becomes the answer verbatim and
		// the downstream agent never runs.
		if err := s.sessionService.RecordAnswer(ctx, userId, request.SessionNumber, turn.TurnNumber, result.FallbackText); err != nil {
			return nil, err
		}
		return &dto.SendChatResponse{
			TurnNumber:   turn.TurnNumber,
			Answer:       result.FallbackText,
			Followup:     result.IsFollowup,
			SharedFolder: sharedFolder,
		}, nil
	}

	var working []llm.Message
	if result.IsFollowup {
		working = append(working, historyMessages...)
	}
	working = append(working, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: request.Query + "\nPlease save any files to the shared folder and include the file names in your response. Shared folder path: " + sharedFolder,
	})

	answer, err := s.runner.Run(ctx, working)
	if err != nil {
		// The question row stays as-is with a null answer: the turn is
		// abandoned and a retry allocates a fresh turn number.
		s.logger.Error("assistant", "agent run failed, turn left unanswered", map[string]interface{}{
			"error":           err.Error(),
			"user_id":         userId.String(),
			"chat_session_id": request.SessionNumber,
			"chat_id":         turn.TurnNumber,
		})
		return nil, fmt.Errorf("agent run for turn %d: %w", turn.TurnNumber, err)
	}

	if err := s.sessionService.RecordAnswer(ctx, userId, request.SessionNumber, turn.TurnNumber, answer); err != nil {
		return nil, err
	}

	s.publishAnswered(userId, request.SessionNumber, turn.TurnNumber)

	return &dto.SendChatResponse{
		TurnNumber:   turn.TurnNumber,
		Answer:       answer,
		Followup:     result.IsFollowup,
		SharedFolder: sharedFolder,
	}, nil
}

func (s *assistantService) ListFiles(userId uuid.UUID, sessionNumber, turnNumber int64) ([]string, error) {
	folder := s.sharedFolder(userId, sessionNumber, turnNumber)

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// LocateArtifact finds a previously produced file by name, searching the
// turn's shared folder first and falling back across the session's other
// turns. The session folder is the search root so one turn's tools can
// consume files produced in an earlier turn.
func (s *assistantService) LocateArtifact(userId uuid.UUID, sessionNumber, turnNumber int64, filename string) (*dto.ArtifactResponse, error) {
	baseFolder := s.sharedFolder(userId, sessionNumber, turnNumber)
	searchRoot := filepath.Dir(baseFolder)

	found, err := s.resolver.Resolve(baseFolder, filename, searchRoot)
	if err != nil {
		return nil, err
	}

	return &dto.ArtifactResponse{
		Filename: found.Name,
		Path:     found.Path,
		Modified: found.ModTime,
	}, nil
}

func (s *assistantService) sharedFolder(userId uuid.UUID, sessionNumber, turnNumber int64) string {
	return filepath.Join(
		s.staticRoot,
		userId.String(),
		strconv.FormatInt(sessionNumber, 10),
		strconv.FormatInt(turnNumber, 10),
	)
}

func (s *assistantService) publishAnswered(userId uuid.UUID, sessionNumber, turnNumber int64) {
	payload, err := json.Marshal(dto.TurnAnsweredMessage{
		UserId:        userId.String(),
		SessionNumber: sessionNumber,
		TurnNumber:    turnNumber,
		AnsweredAt:    time.Now(),
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.answeredTopic, msg); err != nil {
		// Audit events are best effort; the answer is already recorded.
		s.logger.Warn("assistant", "failed to publish answered event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func toLLMMessages(history []entity.Exchange) []llm.Message {
	messages := make([]llm.Message, 0, len(history)*2)
	for _, h := range history {
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleUser,
			Content: h.Question,
		})
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleAssistant,
			Content: h.Answer,
		})
	}
	return messages
}
