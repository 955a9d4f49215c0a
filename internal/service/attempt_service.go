package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 草稿在 Redis 中的保留时长，覆盖最长的考试场次
const draftTTL = 24 * time.Hour

type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
	Redis       *redis.Client
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, examRepo *repository.ExamRepository, rdb *redis.Client) *AttemptService {
	return &AttemptService{
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
		Redis:       rdb,
	}
}

type SubmitAttemptReq struct {
	ExamID      string            `json:"exam_id" binding:"required"`
	StartedAt   time.Time         `json:"started_at"`
	TabSwitches int               `json:"tab_switches"`
	Answers     map[string]string `json:"answers"`
	Snapshots   []string          `json:"snapshots"`
}

// SubmitAttempt 评分并落库，答卷一经写入不可变更。
// StudentID 始终取当前登录用户，忽略请求体里的任何值。
// 未作答的题目计入总分但得 0 分；exam_id 对不上任何题目时总分为 0，判不及格。
func (s *AttemptService) SubmitAttempt(studentID string, req SubmitAttemptReq) (*model.ExamAttempt, error) {
	questions, err := s.ExamRepo.FindQuestions(req.ExamID)
	if err != nil {
		return nil, err
	}

	score := 0
	totalPoints := 0
	for _, q := range questions {
		totalPoints += q.Points
		if answer, ok := req.Answers[q.ID]; ok && answer == q.CorrectAnswer {
			score += q.Points
		}
	}

	passed := false
	if totalPoints > 0 {
		exam, err := s.ExamRepo.FindByID(req.ExamID)
		if err != nil {
			return nil, err
		}
		percentage := float64(score) / float64(totalPoints) * 100
		passed = percentage >= float64(exam.PassingScore)
	}

	now := time.Now()
	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = now
	}

	answers := req.Answers
	if answers == nil {
		answers = map[string]string{}
	}

	attempt := &model.ExamAttempt{
		UUIDBase:    model.UUIDBase{ID: model.GenerateUUID()},
		ExamID:      req.ExamID,
		StudentID:   studentID,
		StartedAt:   startedAt,
		SubmittedAt: &now,
		Score:       score,
		TotalPoints: totalPoints,
		Passed:      passed,
		TabSwitches: req.TabSwitches,
		Answers:     answers,
		Snapshots:   req.Snapshots,
	}

	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	monitoring.AttemptsScored.WithLabelValues(result).Inc()

	// 提交成功后清掉草稿，失败也无妨，草稿会随 TTL 过期
	if s.Redis != nil {
		s.Redis.Del(context.Background(), draftKey(req.ExamID, studentID))
	}

	return attempt, nil
}

// GetAttempt 学生只能查自己的答卷，管理员不受限
func (s *AttemptService) GetAttempt(id, requesterID string, role model.UserRole) (*model.ExamAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if role != model.Admin && attempt.StudentID != requesterID {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}

func (s *AttemptService) ListMyAttempts(studentID string) ([]model.ExamAttempt, error) {
	return s.AttemptRepo.FindByStudent(studentID)
}

// AttemptDraft 考试进行中的草稿，只存 Redis，不落库
type AttemptDraft struct {
	Answers     map[string]string `json:"answers"`
	TabSwitches int               `json:"tab_switches"`
	SavedAt     time.Time         `json:"saved_at"`
}

func draftKey(examID, studentID string) string {
	return "draft:" + examID + ":" + studentID
}

func (s *AttemptService) SaveDraft(ctx context.Context, examID, studentID string, draft *AttemptDraft) error {
	// 未配置 Redis 时草稿功能整体关闭
	if s.Redis == nil {
		return nil
	}
	draft.SavedAt = time.Now()
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, draftKey(examID, studentID), data, draftTTL).Err()
}

// GetDraft 没有草稿时返回 (nil, nil)
func (s *AttemptService) GetDraft(ctx context.Context, examID, studentID string) (*AttemptDraft, error) {
	if s.Redis == nil {
		return nil, nil
	}
	data, err := s.Redis.Get(ctx, draftKey(examID, studentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var draft AttemptDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}
