package implementation

import (
	"context"
	"errors"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/mapper"
	"ai-policyassist-be/internal/model"
	"ai-policyassist-be/internal/repository/contract"
	"ai-policyassist-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *ChatSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	var m model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *ChatSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var models []*model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionToEntity(m)
	}
	return entities, nil
}

func (r *ChatSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatSessionRepositoryImpl) MaxSessionNumber(ctx context.Context, userId uuid.UUID) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("user_id = ?", userId).
		Select("COALESCE(MAX(session_number), 0)").
		Scan(&max).Error
	return max, err
}

func (r *ChatSessionRepositoryImpl) DemoteCurrent(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("user_id = ?", userId).
		Update("current", false).Error
}

func (r *ChatSessionRepositoryImpl) SoftDelete(ctx context.Context, userId uuid.UUID, sessionNumber int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("user_id = ? AND session_number = ?", userId, sessionNumber).
		Updates(map[string]interface{}{
			"deleted": true,
			"active":  false,
			"current": false,
		}).Error
}
