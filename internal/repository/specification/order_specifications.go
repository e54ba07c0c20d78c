package specification

import "gorm.io/gorm"

type ByOrderID struct {
	OrderID string
}

func (s ByOrderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_id = ?", s.OrderID)
}

type ByUserID struct {
	UserID int
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ComplaintsOnly struct{}

func (s ComplaintsOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_complaint = ?", true)
}
