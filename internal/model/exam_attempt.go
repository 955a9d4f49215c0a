package model

import "time"

// ExamAttempt 学生提交后生成的答卷记录，写入后不可变更。
// Answers 键为题目ID，值为所选选项字母。
// swagger:model ExamAttempt
type ExamAttempt struct {
	UUIDBase
	ExamID string `gorm:"index;type:varchar(36)" json:"exam_id"`
	Exam   *Exam  `gorm:"foreignKey:ExamID" json:"exam,omitempty"`

	StudentID string `gorm:"index;type:varchar(36)" json:"student_id"`
	Student   *User  `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`

	Score       int  `json:"score"`
	TotalPoints int  `json:"total_points"`
	Passed      bool `json:"passed"`

	// 前端上报的切屏次数，仅记录不做处罚
	TabSwitches int `json:"tab_switches"`

	Answers   map[string]string `gorm:"serializer:json" json:"answers"`
	Snapshots []string          `gorm:"serializer:json" json:"snapshots,omitempty"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}
