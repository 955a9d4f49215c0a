package service

import (
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ExamService struct {
	ExamRepo    *repository.ExamRepository
	AttemptRepo *repository.AttemptRepository
}

func NewExamService(examRepo *repository.ExamRepository, attemptRepo *repository.AttemptRepository) *ExamService {
	return &ExamService{
		ExamRepo:    examRepo,
		AttemptRepo: attemptRepo,
	}
}

type QuestionReq struct {
	QuestionText  string `json:"question_text" binding:"required"`
	OptionA       string `json:"option_a" binding:"required"`
	OptionB       string `json:"option_b" binding:"required"`
	OptionC       string `json:"option_c" binding:"required"`
	OptionD       string `json:"option_d" binding:"required"`
	CorrectAnswer string `json:"correct_answer" binding:"required,oneof=A B C D"`
	Points        int    `json:"points"`
	OrderNumber   int    `json:"order_number"`
}

type CreateExamReq struct {
	Title           string        `json:"title" binding:"required"`
	Description     string        `json:"description"`
	DurationMinutes int           `json:"duration_minutes"`
	PassingScore    int           `json:"passing_score" binding:"min=0,max=100"`
	IsActive        *bool         `json:"is_active"`
	StartTime       time.Time     `json:"start_time"`
	Questions       []QuestionReq `json:"questions"`
}

type UpdateExamReq struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	DurationMinutes *int       `json:"duration_minutes"`
	PassingScore    *int       `json:"passing_score"`
	IsActive        *bool      `json:"is_active"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
}

// CreateExam 创建考试及题目，一个事务内完成。
// CreatedByID 始终取当前登录管理员，忽略请求体里的任何值。
func (s *ExamService) CreateExam(creatorID string, req CreateExamReq) (*model.Exam, error) {
	exam := &model.Exam{
		UUIDBase:        model.UUIDBase{ID: model.GenerateUUID()},
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
		IsActive:        true,
		StartTime:       req.StartTime,
		CreatedByID:     creatorID,
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if !exam.StartTime.IsZero() && exam.DurationMinutes > 0 {
		exam.EndTime = exam.StartTime.Add(time.Duration(exam.DurationMinutes) * time.Minute)
	}

	exam.Questions = make([]model.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		order := q.OrderNumber
		if order == 0 {
			order = i + 1
		}
		exam.Questions = append(exam.Questions, model.Question{
			UUIDBase:      model.UUIDBase{ID: model.GenerateUUID()},
			ExamID:        exam.ID,
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			OrderNumber:   order,
		})
	}

	if err := s.ExamRepo.CreateWithQuestions(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// ListExams 学生只能看到已激活的考试，管理员看到全部
func (s *ExamService) ListExams(role model.UserRole) ([]model.Exam, error) {
	return s.ExamRepo.List(role == model.Student)
}

// GetExamDetail 返回考试及按展示顺序排列的题目。
// 学生视图不包含正确答案。
func (s *ExamService) GetExamDetail(id string, role model.UserRole) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	if role != model.Admin {
		for i := range exam.Questions {
			exam.Questions[i].CorrectAnswer = ""
		}
	}
	return exam, nil
}

func (s *ExamService) UpdateExam(id string, req UpdateExamReq) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.PassingScore != nil {
		exam.PassingScore = *req.PassingScore
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if req.StartTime != nil {
		exam.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		exam.EndTime = *req.EndTime
	}
	if !exam.StartTime.IsZero() && exam.DurationMinutes > 0 && exam.EndTime.IsZero() {
		exam.EndTime = exam.StartTime.Add(time.Duration(exam.DurationMinutes) * time.Minute)
	}

	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) DeleteExam(id string) error {
	if _, err := s.ExamRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrExamNotFound
		}
		return err
	}
	return s.ExamRepo.Delete(id)
}

// ListExamAttempts 管理端分页查看某场考试的答卷
func (s *ExamService) ListExamAttempts(examID string, page, limit int) (*util.PageResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	attempts, total, err := s.AttemptRepo.FindByExam(examID, page, limit)
	if err != nil {
		return nil, err
	}

	return &util.PageResponse{
		Data:       attempts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}
