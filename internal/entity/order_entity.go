package entity

import (
	"time"
)

type Order struct {
	OrderId          string
	ProductName      string
	UserId           int
	IsComplaint      bool
	ComplaintText    *string
	ComplaintFileUrl *string
	Metadata         map[string]any
	CreatedAt        time.Time
}
