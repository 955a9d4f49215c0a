package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 导入模板的列顺序
var bankColumns = []string{
	"subject", "topic", "complexity",
	"question", "option_a", "option_b", "option_c", "option_d", "correct_answer",
}

type BankService struct {
	BankRepo *repository.BankRepository
	ExamRepo *repository.ExamRepository
}

func NewBankService(bankRepo *repository.BankRepository, examRepo *repository.ExamRepository) *BankService {
	return &BankService{
		BankRepo: bankRepo,
		ExamRepo: examRepo,
	}
}

type BankQuestionReq struct {
	Subject       string `json:"subject" binding:"required"`
	Topic         string `json:"topic" binding:"required"`
	Complexity    string `json:"complexity" binding:"required,oneof=easy medium hard"`
	QuestionText  string `json:"question_text" binding:"required"`
	OptionA       string `json:"option_a" binding:"required"`
	OptionB       string `json:"option_b" binding:"required"`
	OptionC       string `json:"option_c" binding:"required"`
	OptionD       string `json:"option_d" binding:"required"`
	CorrectAnswer string `json:"correct_answer" binding:"required,oneof=A B C D"`
}

func (s *BankService) AddQuestion(creatorID string, req BankQuestionReq) (*model.BankQuestion, error) {
	question := &model.BankQuestion{
		UUIDBase:      model.UUIDBase{ID: model.GenerateUUID()},
		CreatedByID:   creatorID,
		Subject:       req.Subject,
		Topic:         req.Topic,
		Complexity:    strings.ToLower(req.Complexity),
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectAnswer: req.CorrectAnswer,
	}
	if err := s.BankRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *BankService) ListQuestions(subject, topic string) ([]model.BankQuestion, error) {
	return s.BankRepo.List(subject, topic)
}

// UpdateQuestion 整行替换，与导入行保持同一校验口径
func (s *BankService) UpdateQuestion(id string, req BankQuestionReq) (*model.BankQuestion, error) {
	question, err := s.BankRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBankQuestionNotFound
		}
		return nil, err
	}

	question.Subject = req.Subject
	question.Topic = req.Topic
	question.Complexity = strings.ToLower(req.Complexity)
	question.QuestionText = req.QuestionText
	question.OptionA = req.OptionA
	question.OptionB = req.OptionB
	question.OptionC = req.OptionC
	question.OptionD = req.OptionD
	question.CorrectAnswer = req.CorrectAnswer

	if err := s.BankRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *BankService) DeleteQuestion(id string) error {
	if _, err := s.BankRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrBankQuestionNotFound
		}
		return err
	}
	return s.BankRepo.Delete(id)
}

// ImportXLSX 解析上传的表格并整批导入。
// 先在内存里校验所有行，任何一行不合法都拒绝整个文件。
func (s *BankService) ImportXLSX(creatorID string, reader io.Reader) (int, error) {
	xl, err := excelize.OpenReader(reader)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrBankFileInvalid, err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrBankFileInvalid, err)
	}

	cell := func(row []string, idx int) string {
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var questions []model.BankQuestion
	for i, row := range rows {
		if i == 0 {
			continue // 表头
		}

		q := model.BankQuestion{
			UUIDBase:      model.UUIDBase{ID: model.GenerateUUID()},
			CreatedByID:   creatorID,
			Subject:       cell(row, 0),
			Topic:         cell(row, 1),
			Complexity:    strings.ToLower(cell(row, 2)),
			QuestionText:  cell(row, 3),
			OptionA:       cell(row, 4),
			OptionB:       cell(row, 5),
			OptionC:       cell(row, 6),
			OptionD:       cell(row, 7),
			CorrectAnswer: strings.ToUpper(cell(row, 8)),
		}

		if err := validateBankRow(&q, i+1); err != nil {
			return 0, err
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return 0, fmt.Errorf("%w: file contains no data rows", util.ErrBankFileInvalid)
	}

	if err := s.BankRepo.CreateBatch(questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}

func validateBankRow(q *model.BankQuestion, rowNum int) error {
	if q.Subject == "" || q.Topic == "" || q.QuestionText == "" {
		return fmt.Errorf("%w: row %d: missing subject, topic or question", util.ErrBankFileInvalid, rowNum)
	}
	switch q.Complexity {
	case model.ComplexityEasy, model.ComplexityMedium, model.ComplexityHard:
	default:
		return fmt.Errorf("%w: row %d: invalid complexity %q, use easy, medium or hard", util.ErrBankFileInvalid, rowNum, q.Complexity)
	}
	if q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
		return fmt.Errorf("%w: row %d: all four options are required", util.ErrBankFileInvalid, rowNum)
	}
	switch q.CorrectAnswer {
	case "A", "B", "C", "D":
	default:
		return fmt.Errorf("%w: row %d: correct answer must be A, B, C or D", util.ErrBankFileInvalid, rowNum)
	}
	return nil
}

// Template 生成带表头和示例行的导入模板
func (s *BankService) Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range bankColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	examples := [][]string{
		{"Math", "Algebra", "easy", "What is 2 + 2?", "4", "3", "5", "6", "A"},
		{"Science", "Physics", "medium", "Which is an SI unit of length?", "Meter", "Mile", "Foot", "Yard", "A"},
		{"History", "WW2", "hard", "In which year did World War II end?", "1943", "1944", "1945", "1946", "C"},
	}
	for r, row := range examples {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TopicAnalytics 知识点维度的难度分布
type TopicAnalytics struct {
	Topic  string `json:"topic"`
	Easy   int    `json:"easy"`
	Medium int    `json:"medium"`
	Hard   int    `json:"hard"`
	Total  int    `json:"total"`
}

type BankAnalytics struct {
	ByTopic []TopicAnalytics `json:"by_topic"`
	Overall TopicAnalytics   `json:"overall"`
}

// Analytics 统计题库的难度分布，subject 为空统计全库
func (s *BankService) Analytics(subject string) (*BankAnalytics, error) {
	questions, err := s.BankRepo.List(subject, "")
	if err != nil {
		return nil, err
	}

	byTopic := map[string]*TopicAnalytics{}
	var order []string
	overall := TopicAnalytics{Topic: "overall"}

	for _, q := range questions {
		topic := q.Topic
		if topic == "" {
			topic = "Uncategorized"
		}
		entry, ok := byTopic[topic]
		if !ok {
			entry = &TopicAnalytics{Topic: topic}
			byTopic[topic] = entry
			order = append(order, topic)
		}

		entry.Total++
		overall.Total++
		switch q.Complexity {
		case model.ComplexityEasy:
			entry.Easy++
			overall.Easy++
		case model.ComplexityMedium:
			entry.Medium++
			overall.Medium++
		case model.ComplexityHard:
			entry.Hard++
			overall.Hard++
		}
	}

	result := &BankAnalytics{Overall: overall, ByTopic: make([]TopicAnalytics, 0, len(order))}
	for _, topic := range order {
		result.ByTopic = append(result.ByTopic, *byTopic[topic])
	}
	return result, nil
}

// DifficultySplit 各难度占比（百分数），未填的难度不抽题
type DifficultySplit struct {
	Easy   int `json:"easy" binding:"min=0,max=100"`
	Medium int `json:"medium" binding:"min=0,max=100"`
	Hard   int `json:"hard" binding:"min=0,max=100"`
}

// DifficultyPoints 各难度题目的分值
type DifficultyPoints struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

type GenerateExamReq struct {
	Subject        string   `json:"subject" binding:"required"`
	Topics         []string `json:"topics"`
	TotalQuestions int      `json:"total_questions" binding:"required,min=1"`

	Difficulty DifficultySplit  `json:"difficulty"`
	Points     DifficultyPoints `json:"points"`

	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PassingScore    int       `json:"passing_score" binding:"min=0,max=100"`
	StartTime       time.Time `json:"start_time"`
}

// pickQuestions 按难度配比从题库中随机抽题
func (s *BankService) pickQuestions(req GenerateExamReq) ([]model.BankQuestion, error) {
	bank, err := s.BankRepo.FindForGeneration(req.Subject, req.Topics)
	if err != nil {
		return nil, err
	}

	buckets := map[string][]model.BankQuestion{}
	for _, q := range bank {
		buckets[q.Complexity] = append(buckets[q.Complexity], q)
	}

	total := req.TotalQuestions
	needEasy := total * req.Difficulty.Easy / 100
	needMedium := total * req.Difficulty.Medium / 100
	needHard := total - needEasy - needMedium

	if len(buckets[model.ComplexityEasy]) < needEasy ||
		len(buckets[model.ComplexityMedium]) < needMedium ||
		len(buckets[model.ComplexityHard]) < needHard {
		return nil, util.ErrBankInsufficient
	}

	pick := func(qs []model.BankQuestion, n int) []model.BankQuestion {
		rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		return qs[:n]
	}

	picked := make([]model.BankQuestion, 0, total)
	picked = append(picked, pick(buckets[model.ComplexityEasy], needEasy)...)
	picked = append(picked, pick(buckets[model.ComplexityMedium], needMedium)...)
	picked = append(picked, pick(buckets[model.ComplexityHard], needHard)...)
	return picked, nil
}

func pointsFor(complexity string, points DifficultyPoints) int {
	p := 0
	switch complexity {
	case model.ComplexityEasy:
		p = points.Easy
	case model.ComplexityMedium:
		p = points.Medium
	case model.ComplexityHard:
		p = points.Hard
	}
	if p <= 0 {
		p = 1
	}
	return p
}

// examQuestions 把抽中的题库题复制成考试题目
func examQuestions(examID string, picked []model.BankQuestion, points DifficultyPoints) []model.Question {
	questions := make([]model.Question, 0, len(picked))
	for i, q := range picked {
		questions = append(questions, model.Question{
			UUIDBase:      model.UUIDBase{ID: model.GenerateUUID()},
			ExamID:        examID,
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			Points:        pointsFor(q.Complexity, points),
			OrderNumber:   i + 1,
		})
	}
	return questions
}

// GenerateExam 从题库按难度配比抽题生成一场新考试
func (s *BankService) GenerateExam(creatorID string, req GenerateExamReq) (*model.Exam, error) {
	picked, err := s.pickQuestions(req)
	if err != nil {
		return nil, err
	}

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
	if !exam.StartTime.IsZero() && exam.DurationMinutes > 0 {
		exam.EndTime = exam.StartTime.Add(time.Duration(exam.DurationMinutes) * time.Minute)
	}
	exam.Questions = examQuestions(exam.ID, picked, req.Points)

	if err := s.ExamRepo.CreateWithQuestions(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// RegenerateExam 重新抽题并整体替换某场考试的题目。
// 已有答卷不受影响，它们引用的题目ID在评分时已经结算过。
func (s *BankService) RegenerateExam(examID string, req GenerateExamReq) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	picked, err := s.pickQuestions(req)
	if err != nil {
		return nil, err
	}

	exam.Title = req.Title
	exam.Description = req.Description
	exam.DurationMinutes = req.DurationMinutes
	exam.PassingScore = req.PassingScore
	exam.StartTime = req.StartTime
	if !exam.StartTime.IsZero() && exam.DurationMinutes > 0 {
		exam.EndTime = exam.StartTime.Add(time.Duration(exam.DurationMinutes) * time.Minute)
	}

	questions := examQuestions(exam.ID, picked, req.Points)
	if err := s.ExamRepo.ReplaceQuestions(exam, questions); err != nil {
		return nil, err
	}
	exam.Questions = questions
	return exam, nil
}
