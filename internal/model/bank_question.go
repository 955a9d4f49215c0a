package model

// 题库难度等级
const (
	ComplexityEasy   = "easy"
	ComplexityMedium = "medium"
	ComplexityHard   = "hard"
)

// BankQuestion 题库中的一道备选题，按科目/知识点/难度归类。
// 组卷时从中抽取并复制成考试题目，之后修改题库不影响已生成的考试。
// swagger:model BankQuestion
type BankQuestion struct {
	UUIDBase
	CreatedByID  string `gorm:"index;type:varchar(36)" json:"created_by"`
	Subject      string `gorm:"size:100;index" json:"subject"`
	Topic        string `gorm:"size:100;index" json:"topic"`
	Complexity   string `gorm:"size:20;index" json:"complexity"`
	QuestionText string `gorm:"type:text" json:"question_text"`
	OptionA      string `gorm:"type:text" json:"option_a"`
	OptionB      string `gorm:"type:text" json:"option_b"`
	OptionC      string `gorm:"type:text" json:"option_c"`
	OptionD      string `gorm:"type:text" json:"option_d"`

	// 正确答案选项字母
	CorrectAnswer string `gorm:"size:10" json:"correct_answer"`
}

func (BankQuestion) TableName() string {
	return "bank_questions"
}
