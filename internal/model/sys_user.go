package model

// SysUser 后台用户
type SysUser struct {
	BaseModel

	Username string `gorm:"size:50;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // bcrypt 哈希
	Email    string `gorm:"size:100"`
	Nickname string `gorm:"size:50"`

	// 角色: admin, operator, viewer
	Role   string `gorm:"size:20;default:'operator'"`
	Status int    `gorm:"default:1;comment:状态 0-停用 1-正常"`
}

func (SysUser) TableName() string {
	return "sys_users"
}
