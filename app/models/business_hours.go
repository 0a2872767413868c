package models

type BusinessHours struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BusinessID uint   `gorm:"uniqueIndex:idx_business_hours_day;not null" json:"business_id"`
	DayOfWeek  string `gorm:"type:varchar(10);uniqueIndex:idx_business_hours_day;not null" json:"day_of_week"`
	OpenTime   string `gorm:"type:varchar(5)" json:"open_time"`  // HH:MM
	CloseTime  string `gorm:"type:varchar(5)" json:"close_time"` // HH:MM
	IsClosed   bool   `gorm:"default:false" json:"is_closed"`
}
