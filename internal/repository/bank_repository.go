package repository

import (
	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type BankRepository struct {
	DB *gorm.DB
}

func NewBankRepository(db *gorm.DB) *BankRepository {
	return &BankRepository{DB: db}
}

func (r *BankRepository) Create(question *model.BankQuestion) error {
	return r.DB.Create(question).Error
}

// CreateBatch 批量导入，任意一行失败整批回滚
func (r *BankRepository) CreateBatch(questions []model.BankQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(questions, 100).Error
	})
}

func (r *BankRepository) FindByID(id string) (*model.BankQuestion, error) {
	var question model.BankQuestion
	err := r.DB.First(&question, "id = ?", id).Error
	return &question, err
}

// List 按科目/知识点过滤，空串表示不过滤
func (r *BankRepository) List(subject, topic string) ([]model.BankQuestion, error) {
	var questions []model.BankQuestion
	query := r.DB.Order("created_at desc")
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	err := query.Find(&questions).Error
	return questions, err
}

func (r *BankRepository) Update(question *model.BankQuestion) error {
	return r.DB.Save(question).Error
}

func (r *BankRepository) Delete(id string) error {
	return r.DB.Delete(&model.BankQuestion{}, "id = ?", id).Error
}

// FindForGeneration 组卷时取某科目下的备选题，topics 为空取全部知识点
func (r *BankRepository) FindForGeneration(subject string, topics []string) ([]model.BankQuestion, error) {
	var questions []model.BankQuestion
	query := r.DB.Where("subject = ?", subject)
	if len(topics) > 0 {
		query = query.Where("topic IN ?", topics)
	}
	err := query.Find(&questions).Error
	return questions, err
}
