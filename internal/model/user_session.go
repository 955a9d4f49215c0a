package model

import "time"

// UserSession 每次登录生成一条会话记录，JWT 的 jti 指向它。
// 学生重新登录会使旧会话失效，被顶掉的令牌随即不可用。
// swagger:model UserSession
type UserSession struct {
	UUIDBase
	UserID    string     `gorm:"index;type:varchar(36)" json:"user_id"`
	Jti       string     `gorm:"index;size:36" json:"jti"`
	IP        string     `gorm:"size:45" json:"ip"`
	Active    bool       `gorm:"default:true" json:"active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
