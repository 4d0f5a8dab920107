package service

import (
	"context"
	"errors"
	"testing"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/repository/contract"
	"ai-policyassist-be/internal/repository/specification"
	"ai-policyassist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeStore backs every fake repository with shared in-memory state so the
// service sees consistent reads across units of work.
type fakeStore struct {
	sessions []*entity.ChatSession
	turns    []*entity.ChatTurn

	// sessionCreateErrs is consumed one entry per Create call before the
	// insert is attempted, simulating lost allocation races.
	sessionCreateErrs []error
	turnCreateErrs    []error

	lastTurnFindSpecs []specification.Specification
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUow) ChatTurnRepository() contract.ChatTurnRepository {
	return &fakeTurnRepo{store: u.store}
}

func (u *fakeUow) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	if len(r.store.sessionCreateErrs) > 0 {
		err := r.store.sessionCreateErrs[0]
		r.store.sessionCreateErrs = r.store.sessionCreateErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, s := range r.store.sessions {
		if s.UserId == session.UserId && s.SessionNumber == session.SessionNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	session.Id = uuid.New()
	r.store.sessions = append(r.store.sessions, session)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	userId, sessionNumber, notDeleted := sessionCriteria(specs)
	for _, s := range r.store.sessions {
		if s.UserId == userId && s.SessionNumber == sessionNumber {
			if notDeleted && s.Deleted {
				return nil, nil
			}
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		if !s.Deleted {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.sessions)), nil
}

func (r *fakeSessionRepo) MaxSessionNumber(ctx context.Context, userId uuid.UUID) (int64, error) {
	var max int64
	for _, s := range r.store.sessions {
		if s.UserId == userId && s.SessionNumber > max {
			max = s.SessionNumber
		}
	}
	return max, nil
}

func (r *fakeSessionRepo) DemoteCurrent(ctx context.Context, userId uuid.UUID) error {
	for _, s := range r.store.sessions {
		if s.UserId == userId {
			s.Current = false
		}
	}
	return nil
}

func (r *fakeSessionRepo) SoftDelete(ctx context.Context, userId uuid.UUID, sessionNumber int64) error {
	for _, s := range r.store.sessions {
		if s.UserId == userId && s.SessionNumber == sessionNumber {
			s.Deleted = true
			s.Active = false
			s.Current = false
		}
	}
	return nil
}

type fakeTurnRepo struct{ store *fakeStore }

func (r *fakeTurnRepo) Create(ctx context.Context, turn *entity.ChatTurn) error {
	if len(r.store.turnCreateErrs) > 0 {
		err := r.store.turnCreateErrs[0]
		r.store.turnCreateErrs = r.store.turnCreateErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, t := range r.store.turns {
		if t.UserId == turn.UserId && t.SessionNumber == turn.SessionNumber && t.TurnNumber == turn.TurnNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	turn.Id = uuid.New()
	r.store.turns = append(r.store.turns, turn)
	return nil
}

func (r *fakeTurnRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTurn, error) {
	return nil, nil
}

// FindAll returns the stored turns newest-first, honoring the exclude,
// deleted, and limit criteria the service is expected to pass.
func (r *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	r.store.lastTurnFindSpecs = specs
	exclude, limit := turnCriteria(specs)

	var out []*entity.ChatTurn
	for i := len(r.store.turns) - 1; i >= 0; i-- {
		t := r.store.turns[i]
		if t.Deleted || t.TurnNumber == exclude {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.turns)), nil
}

func (r *fakeTurnRepo) MaxTurnNumber(ctx context.Context, userId uuid.UUID, sessionNumber int64) (int64, error) {
	var max int64
	for _, t := range r.store.turns {
		if t.UserId == userId && t.SessionNumber == sessionNumber && t.TurnNumber > max {
			max = t.TurnNumber
		}
	}
	return max, nil
}

func (r *fakeTurnRepo) UpdateAnswer(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64, answer string) (int64, error) {
	for _, t := range r.store.turns {
		if t.UserId == userId && t.SessionNumber == sessionNumber && t.TurnNumber == turnNumber && !t.Deleted {
			t.Answer = &answer
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeTurnRepo) SoftDelete(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64) error {
	for _, t := range r.store.turns {
		if t.UserId == userId && t.SessionNumber == sessionNumber && t.TurnNumber == turnNumber {
			t.Deleted = true
			t.Active = false
			t.Current = false
		}
	}
	return nil
}

func sessionCriteria(specs []specification.Specification) (userId uuid.UUID, sessionNumber int64, notDeleted bool) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByUserID:
			userId = s.UserID
		case specification.BySessionNumber:
			sessionNumber = s.SessionNumber
		case specification.NotDeleted:
			notDeleted = true
		}
	}
	return
}

func turnCriteria(specs []specification.Specification) (exclude int64, limit int) {
	exclude = -1
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ExcludeTurnNumber:
			exclude = s.TurnNumber
		case specification.Limit:
			limit = s.Limit
		}
	}
	return
}

func newTestService(store *fakeStore) ISessionService {
	return NewSessionService(&fakeFactory{store: store}, nopLogger{})
}

func TestCreateSessionAllocatesIncreasingNumbers(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	for want := int64(1); want <= 3; want++ {
		session, err := svc.CreateSession(context.Background(), userId)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if session.SessionNumber != want {
			t.Errorf("SessionNumber = %d, want %d", session.SessionNumber, want)
		}
	}
}

func TestCreateSessionKeepsSingleCurrent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(context.Background(), userId); err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
	}

	currentCount := 0
	for _, s := range store.sessions {
		if s.Current {
			currentCount++
			if s.SessionNumber != 3 {
				t.Errorf("current session is %d, want the newest (3)", s.SessionNumber)
			}
		}
	}
	if currentCount != 1 {
		t.Errorf("current sessions = %d, want exactly 1", currentCount)
	}
}

func TestCreateSessionRetriesLostRace(t *testing.T) {
	store := &fakeStore{
		sessionCreateErrs: []error{gorm.ErrDuplicatedKey},
	}
	svc := newTestService(store)

	session, err := svc.CreateSession(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("CreateSession() error = %v, want recovery on retry", err)
	}
	if session.SessionNumber != 1 {
		t.Errorf("SessionNumber = %d, want 1", session.SessionNumber)
	}
}

func TestCreateSessionGivesUpAfterRepeatedConflicts(t *testing.T) {
	store := &fakeStore{
		sessionCreateErrs: []error{gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey},
	}
	svc := newTestService(store)

	_, err := svc.CreateSession(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("CreateSession() error = nil, want failure after exhausted retries")
	}
}

func TestCreateSessionPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("disk full")
	store := &fakeStore{sessionCreateErrs: []error{boom}}
	svc := newTestService(store)

	_, err := svc.CreateSession(context.Background(), uuid.New())
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v without retrying", err, boom)
	}
}

func TestCreateTurnAllocatesPerSession(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateSession(context.Background(), userId); err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
	}

	// Turn numbers advance independently per session.
	for _, tc := range []struct {
		session int64
		want    int64
	}{
		{1, 1}, {1, 2}, {2, 1}, {1, 3},
	} {
		turn, err := svc.CreateTurn(context.Background(), userId, tc.session, "question")
		if err != nil {
			t.Fatalf("CreateTurn(session %d) error = %v", tc.session, err)
		}
		if turn.TurnNumber != tc.want {
			t.Errorf("TurnNumber in session %d = %d, want %d", tc.session, turn.TurnNumber, tc.want)
		}
		if turn.Answer != nil {
			t.Error("new turn Answer should be nil until recorded")
		}
	}
}

func TestCreateTurnRejectsMissingSession(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.CreateTurn(context.Background(), uuid.New(), 99, "question")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestCreateTurnRejectsDeletedSession(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	if _, err := svc.CreateSession(context.Background(), userId); err != nil {
		t.Fatal(err)
	}
	if err := svc.SoftDeleteSession(context.Background(), userId, 1); err != nil {
		t.Fatal(err)
	}

	_, err := svc.CreateTurn(context.Background(), userId, 1, "question")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound for a deleted session", err)
	}
}

func TestRecordAnswer(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	if _, err := svc.CreateSession(context.Background(), userId); err != nil {
		t.Fatal(err)
	}
	turn, err := svc.CreateTurn(context.Background(), userId, 1, "question")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.RecordAnswer(context.Background(), userId, 1, turn.TurnNumber, "the answer"); err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}
	if store.turns[0].Answer == nil || *store.turns[0].Answer != "the answer" {
		t.Error("answer not persisted")
	}

	err = svc.RecordAnswer(context.Background(), userId, 1, 42, "orphan")
	if !errors.Is(err, ErrTurnNotFound) {
		t.Errorf("error = %v, want ErrTurnNotFound for a missing turn", err)
	}
}

func TestRecentHistoryOldestToNewest(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	if _, err := svc.CreateSession(context.Background(), userId); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 4; i++ {
		turn, err := svc.CreateTurn(context.Background(), userId, 1, "q")
		if err != nil {
			t.Fatal(err)
		}
		if i < 4 {
			answer := "a" + string(rune('0'+i))
			if err := svc.RecordAnswer(context.Background(), userId, 1, turn.TurnNumber, answer); err != nil {
				t.Fatal(err)
			}
		}
	}

	// Excluding the in-flight turn 4, limit 2 keeps the two newest of the
	// remainder, returned oldest first.
	history, err := svc.RecentHistory(context.Background(), userId, 1, 4, 2)
	if err != nil {
		t.Fatalf("RecentHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Answer != "a2" || history[1].Answer != "a3" {
		t.Errorf("history answers = [%s %s], want [a2 a3]", history[0].Answer, history[1].Answer)
	}

	exclude, limit := turnCriteria(store.lastTurnFindSpecs)
	if exclude != 4 {
		t.Errorf("exclude criterion = %d, want 4", exclude)
	}
	if limit != 2 {
		t.Errorf("limit criterion = %d, want 2", limit)
	}
}

func TestRecentHistoryUnansweredTurnEmptyString(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	if _, err := svc.CreateSession(context.Background(), userId); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTurn(context.Background(), userId, 1, "pending"); err != nil {
		t.Fatal(err)
	}

	history, err := svc.RecentHistory(context.Background(), userId, 1, 0, 5)
	if err != nil {
		t.Fatalf("RecentHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Answer != "" {
		t.Errorf("unanswered turn Answer = %q, want empty string", history[0].Answer)
	}
}

func TestNumbersNotReusedAfterSoftDelete(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	userId := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateSession(context.Background(), userId); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.SoftDeleteSession(context.Background(), userId, 2); err != nil {
		t.Fatal(err)
	}

	session, err := svc.CreateSession(context.Background(), userId)
	if err != nil {
		t.Fatal(err)
	}
	if session.SessionNumber != 3 {
		t.Errorf("SessionNumber = %d, want 3 (deleted numbers are never reused)", session.SessionNumber)
	}
}
