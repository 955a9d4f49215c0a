package model

import "time"

// swagger:model Exam
type Exam struct {
	UUIDBase
	Title           string `gorm:"size:255;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PassingScore    int    `json:"passing_score"` // 及格线（百分比）
	IsActive        bool   `gorm:"default:true" json:"is_active"`

	// 考试窗口，仅供前端展示，提交时不做时间校验
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	CreatedByID string     `gorm:"index;type:varchar(36)" json:"created_by"`
	Questions   []Question `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE;" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}
