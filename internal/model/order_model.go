package model

import (
	"time"

	"gorm.io/datatypes"
)

type Order struct {
	OrderId          string `gorm:"type:varchar(255);primaryKey"`
	ProductName      string `gorm:"type:varchar(255);not null"`
	UserId           int    `gorm:"not null;index"`
	IsComplaint      bool   `gorm:"not null;default:false"`
	ComplaintText    *string
	ComplaintFileUrl *string        `gorm:"type:varchar(500)"` // ';'-separated when multiple files
	Metadata         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
}

func (Order) TableName() string {
	return "orders"
}
