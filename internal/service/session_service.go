package service

import (
	"context"
	"errors"
	"fmt"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/pkg/logger"
	"ai-policyassist-be/internal/repository/specification"
	"ai-policyassist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSessionNotFound is returned when an operation targets a session
	// that does not exist or is deleted.
	ErrSessionNotFound = errors.New("chat session not found")

	// ErrTurnNotFound is returned when RecordAnswer targets a missing or
	// deleted turn.
	ErrTurnNotFound = errors.New("chat turn not found")

	// errSequenceConflict marks a lost allocation race. It is recovered by
	// retrying the transaction and never surfaces to callers.
	errSequenceConflict = errors.New("sequence number conflict")
)

// sequenceRetries caps allocation retries; an allocation that keeps losing
// races points at a schema problem, not contention.
const sequenceRetries = 3

type ISessionService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*entity.ChatSession, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]*entity.ChatSession, error)
	CreateTurn(ctx context.Context, userId uuid.UUID, sessionNumber int64, question string) (*entity.ChatTurn, error)
	RecordAnswer(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64, answer string) error
	RecentHistory(ctx context.Context, userId uuid.UUID, sessionNumber, excludeTurn int64, limit int) ([]entity.Exchange, error)
	SoftDeleteSession(ctx context.Context, userId uuid.UUID, sessionNumber int64) error
	SoftDeleteTurn(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// CreateSession allocates the next session number for the user, demotes
// every previous session from current, and inserts the new row. The whole
// read-compute-write runs in one transaction; a lost race on the
// (user_id, session_number) unique index is retried with a fresh read.
func (s *sessionService) CreateSession(ctx context.Context, userId uuid.UUID) (*entity.ChatSession, error) {
	var created *entity.ChatSession

	err := s.withSequenceRetry(func() error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		repo := uow.ChatSessionRepository()

		max, err := repo.MaxSessionNumber(ctx, userId)
		if err != nil {
			uow.Rollback()
			return err
		}

		if err := repo.DemoteCurrent(ctx, userId); err != nil {
			uow.Rollback()
			return err
		}

		session := &entity.ChatSession{
			UserId:        userId,
			SessionNumber: max + 1,
			Current:       true,
			Active:        true,
			Deleted:       false,
		}
		if err := repo.Create(ctx, session); err != nil {
			uow.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errSequenceConflict
			}
			return err
		}

		if err := uow.Commit(); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errSequenceConflict
			}
			return err
		}

		created = session
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create session for user %s: %w", userId, err)
	}

	s.logger.Info("session", "chat session created", map[string]interface{}{
		"user_id":         userId.String(),
		"chat_session_id": created.SessionNumber,
	})
	return created, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "session_number", Desc: true},
	)
}

// CreateTurn allocates the next turn number within (user, session) and
// inserts the question with a null answer. Same transactional contract as
// CreateSession, scoped by (user_id, session_number, chat_number).
func (s *sessionService) CreateTurn(ctx context.Context, userId uuid.UUID, sessionNumber int64, question string) (*entity.ChatTurn, error) {
	session, err := s.findSession(ctx, userId, sessionNumber)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %d for user %s: %w", sessionNumber, userId, ErrSessionNotFound)
	}

	var created *entity.ChatTurn

	err = s.withSequenceRetry(func() error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		repo := uow.ChatTurnRepository()

		max, err := repo.MaxTurnNumber(ctx, userId, sessionNumber)
		if err != nil {
			uow.Rollback()
			return err
		}

		turn := &entity.ChatTurn{
			UserId:        userId,
			SessionNumber: sessionNumber,
			TurnNumber:    max + 1,
			Question:      question,
			Answer:        nil,
			Current:       true,
			Active:        true,
			Deleted:       false,
		}
		if err := repo.Create(ctx, turn); err != nil {
			uow.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errSequenceConflict
			}
			return err
		}

		if err := uow.Commit(); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errSequenceConflict
			}
			return err
		}

		created = turn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create turn in session %d for user %s: %w", sessionNumber, userId, err)
	}

	s.logger.Info("session", "chat turn created", map[string]interface{}{
		"user_id":         userId.String(),
		"chat_session_id": sessionNumber,
		"chat_id":         created.TurnNumber,
	})
	return created, nil
}

func (s *sessionService) RecordAnswer(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64, answer string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.ChatTurnRepository().UpdateAnswer(ctx, userId, sessionNumber, turnNumber, answer)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("turn %d in session %d for user %s: %w", turnNumber, sessionNumber, userId, ErrTurnNotFound)
	}
	return nil
}

// RecentHistory returns up to limit question/answer pairs of the session,
// excluding the given turn, oldest to newest. The fetch is newest-first so
// the limit trims old turns, then the slice is reversed.
func (s *sessionService) RecentHistory(ctx context.Context, userId uuid.UUID, sessionNumber, excludeTurn int64, limit int) ([]entity.Exchange, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.ChatTurnRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.BySessionNumber{SessionNumber: sessionNumber},
		specification.ExcludeTurnNumber{TurnNumber: excludeTurn},
		specification.NotDeleted{},
		specification.OrderBy{Field: "chat_number", Desc: true},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	history := make([]entity.Exchange, 0, len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		answer := ""
		if t.Answer != nil {
			answer = *t.Answer
		}
		history = append(history, entity.Exchange{
			Question: t.Question,
			Answer:   answer,
		})
	}
	return history, nil
}

func (s *sessionService) SoftDeleteSession(ctx context.Context, userId uuid.UUID, sessionNumber int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatSessionRepository().SoftDelete(ctx, userId, sessionNumber)
}

func (s *sessionService) SoftDeleteTurn(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatTurnRepository().SoftDelete(ctx, userId, sessionNumber, turnNumber)
}

func (s *sessionService) findSession(ctx context.Context, userId uuid.UUID, sessionNumber int64) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatSessionRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.BySessionNumber{SessionNumber: sessionNumber},
		specification.NotDeleted{},
	)
}

func (s *sessionService) withSequenceRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, errSequenceConflict) {
			return err
		}
		s.logger.Warn("session", "sequence allocation race lost, retrying", map[string]interface{}{
			"attempt": attempt + 1,
		})
	}
	return err
}
