package repository

import (
	"exam_portal_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.UserSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindActiveByJti(jti string) (*model.UserSession, error) {
	var session model.UserSession
	err := r.DB.Where("jti = ? AND active = ?", jti, true).First(&session).Error
	return &session, err
}

// DeactivateByUser 使某用户的全部活跃会话失效（登录顶号）
func (r *SessionRepository) DeactivateByUser(userID string) error {
	return r.DB.Model(&model.UserSession{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
}

// DeleteExpired 清理已过期会话，由后台定时任务调用
func (r *SessionRepository) DeleteExpired() (int64, error) {
	result := r.DB.Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&model.UserSession{})
	return result.RowsAffected, result.Error
}
