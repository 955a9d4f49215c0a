package repository

import (
	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.ExamAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.DB.Preload("Exam").First(&attempt, "id = ?", id).Error
	return &attempt, err
}

func (r *AttemptRepository) FindByStudent(studentID string) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.Preload("Exam").
		Where("student_id = ?", studentID).
		Order("started_at desc").
		Find(&attempts).Error
	return attempts, err
}

// FindByExam 管理端分页查询某场考试的全部答卷
func (r *AttemptRepository) FindByExam(examID string, page, limit int) ([]model.ExamAttempt, int64, error) {
	var attempts []model.ExamAttempt
	var total int64

	if err := r.DB.Model(&model.ExamAttempt{}).Where("exam_id = ?", examID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Preload("Student").
		Where("exam_id = ?", examID).
		Order("started_at desc").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	return attempts, total, err
}
