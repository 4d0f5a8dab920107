package mapper

import (
	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToModel(e *entity.ChatSession) *model.ChatSession {
	return &model.ChatSession{
		Id:            e.Id,
		UserId:        e.UserId,
		SessionNumber: e.SessionNumber,
		Current:       e.Current,
		Active:        e.Active,
		Deleted:       e.Deleted,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChatMapper) SessionToEntity(mo *model.ChatSession) *entity.ChatSession {
	return &entity.ChatSession{
		Id:            mo.Id,
		UserId:        mo.UserId,
		SessionNumber: mo.SessionNumber,
		Current:       mo.Current,
		Active:        mo.Active,
		Deleted:       mo.Deleted,
		CreatedAt:     mo.CreatedAt,
	}
}

func (m *ChatMapper) TurnToModel(e *entity.ChatTurn) *model.ChatTurn {
	return &model.ChatTurn{
		Id:            e.Id,
		UserId:        e.UserId,
		SessionNumber: e.SessionNumber,
		TurnNumber:    e.TurnNumber,
		Question:      e.Question,
		Answer:        e.Answer,
		Current:       e.Current,
		Active:        e.Active,
		Deleted:       e.Deleted,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChatMapper) TurnToEntity(mo *model.ChatTurn) *entity.ChatTurn {
	return &entity.ChatTurn{
		Id:            mo.Id,
		UserId:        mo.UserId,
		SessionNumber: mo.SessionNumber,
		TurnNumber:    mo.TurnNumber,
		Question:      mo.Question,
		Answer:        mo.Answer,
		Current:       mo.Current,
		Active:        mo.Active,
		Deleted:       mo.Deleted,
		CreatedAt:     mo.CreatedAt,
	}
}
