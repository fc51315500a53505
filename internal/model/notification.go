package model

// 通知级别
const (
	NotifyLevelInfo    = "info"
	NotifyLevelWarning = "warning"
	NotifyLevelError   = "error"
)

// Notification 用户通知（授权结果、同步结果等）
type Notification struct {
	BaseModel

	UserID  int64  `gorm:"index;not null"`
	Level   string `gorm:"size:16;default:'info'"`
	Title   string `gorm:"size:255"`
	Content string `gorm:"type:text"`
	IsRead  bool   `gorm:"default:false;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
