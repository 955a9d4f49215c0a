package repository

import (
	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

// CreateWithQuestions 在一个事务中写入考试及其题目
func (r *ExamRepository) CreateWithQuestions(exam *model.Exam) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(exam).Error
	})
}

func (r *ExamRepository) FindByID(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.First(&exam, "id = ?", id).Error
	return &exam, err
}

func (r *ExamRepository) FindByIDWithQuestions(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_number asc")
	}).First(&exam, "id = ?", id).Error
	return &exam, err
}

// List 按创建时间倒序返回考试，activeOnly 为学生视图
func (r *ExamRepository) List(activeOnly bool) ([]model.Exam, error) {
	var exams []model.Exam
	query := r.DB.Order("created_at desc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

// Delete 删除考试并级联删除题目。
// MySQL 外键带 ON DELETE CASCADE，此处再显式删一遍以兼容未建外键的库。
func (r *ExamRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, "id = ?", id).Error
	})
}

// ReplaceQuestions 更新考试元数据并整体替换题目，重新组卷用
func (r *ExamRepository) ReplaceQuestions(exam *model.Exam, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions").Save(exam).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", exam.ID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *ExamRepository) FindQuestions(examID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("exam_id = ?", examID).Order("order_number asc").Find(&questions).Error
	return questions, err
}
