package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role          string    `gorm:"type:varchar(16);not null"`
	Chat          string    `gorm:"type:text;not null"`
	Route         string    `gorm:"type:varchar(32)"` // which agent produced the reply
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
