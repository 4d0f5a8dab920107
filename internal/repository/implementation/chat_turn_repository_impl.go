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

type ChatTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatTurnRepository(db *gorm.DB) contract.ChatTurnRepository {
	return &ChatTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatTurnRepositoryImpl) Create(ctx context.Context, turn *entity.ChatTurn) error {
	m := r.mapper.TurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.TurnToEntity(m)
	return nil
}

func (r *ChatTurnRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTurn, error) {
	var m model.ChatTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TurnToEntity(&m), nil
}

func (r *ChatTurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	var models []*model.ChatTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatTurn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TurnToEntity(m)
	}
	return entities, nil
}

func (r *ChatTurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatTurn{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatTurnRepositoryImpl) MaxTurnNumber(ctx context.Context, userId uuid.UUID, sessionNumber int64) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatTurn{}).
		Where("user_id = ? AND session_number = ?", userId, sessionNumber).
		Select("COALESCE(MAX(chat_number), 0)").
		Scan(&max).Error
	return max, err
}

func (r *ChatTurnRepositoryImpl) UpdateAnswer(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64, answer string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ChatTurn{}).
		Where("user_id = ? AND session_number = ? AND chat_number = ? AND deleted = false", userId, sessionNumber, turnNumber).
		Update("answer", answer)
	return result.RowsAffected, result.Error
}

func (r *ChatTurnRepositoryImpl) SoftDelete(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatTurn{}).
		Where("user_id = ? AND session_number = ? AND chat_number = ?", userId, sessionNumber, turnNumber).
		Updates(map[string]interface{}{
			"deleted": true,
			"active":  false,
			"current": false,
		}).Error
}
