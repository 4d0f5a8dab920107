package dto

import "time"

type CreateSessionResponse struct {
	SessionNumber int64 `json:"chat_session_id"`
}

type SessionResponse struct {
	SessionNumber int64     `json:"chat_session_id"`
	Current       bool      `json:"current"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

type SendChatRequest struct {
	SessionNumber int64  `json:"chat_session_id" validate:"required,min=1"`
	Query         string `json:"user_query" validate:"required"`
}

type SendChatResponse struct {
	TurnNumber   int64  `json:"chat_id"`
	Answer       string `json:"response"`
	Followup     bool   `json:"followup"`
	SharedFolder string `json:"shared_folder"`
}

type ArtifactResponse struct {
	Filename string    `json:"filename"`
	Path     string    `json:"filepath"`
	Modified time.Time `json:"modified_at"`
}

// TurnAnsweredMessage is the payload published on the answered-turn topic.
type TurnAnsweredMessage struct {
	UserId        string    `json:"user_id"`
	SessionNumber int64     `json:"chat_session_id"`
	TurnNumber    int64     `json:"chat_id"`
	AnsweredAt    time.Time `json:"answered_at"`
}
