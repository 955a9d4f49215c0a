package model

// swagger:model Question
type Question struct {
	UUIDBase
	ExamID       string `gorm:"index;type:varchar(36)" json:"exam_id"`
	QuestionText string `gorm:"type:text;not null" json:"question_text"`
	OptionA      string `gorm:"type:text" json:"option_a"`
	OptionB      string `gorm:"type:text" json:"option_b"`
	OptionC      string `gorm:"type:text" json:"option_c"`
	OptionD      string `gorm:"type:text" json:"option_d"`

	// 正确答案选项字母，学生端接口不返回
	CorrectAnswer string `gorm:"size:10" json:"correct_answer,omitempty"`

	Points      int `json:"points"`
	OrderNumber int `json:"order_number"`
}

func (Question) TableName() string {
	return "questions"
}
