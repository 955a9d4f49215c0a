package service

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

func bankReq(subject, topic, complexity string) BankQuestionReq {
	return BankQuestionReq{
		Subject:       subject,
		Topic:         topic,
		Complexity:    complexity,
		QuestionText:  fmt.Sprintf("%s/%s (%s) 示例题", subject, topic, complexity),
		OptionA:       "A",
		OptionB:       "B",
		OptionC:       "C",
		OptionD:       "D",
		CorrectAnswer: "B",
	}
}

// seedBank 往题库塞指定科目/知识点下三种难度各 n 题
func seedBank(t *testing.T, svc *BankService, creatorID, subject, topic string, n int) {
	t.Helper()
	for _, complexity := range []string{model.ComplexityEasy, model.ComplexityMedium, model.ComplexityHard} {
		for i := 0; i < n; i++ {
			if _, err := svc.AddQuestion(creatorID, bankReq(subject, topic, complexity)); err != nil {
				t.Fatalf("seed bank question: %v", err)
			}
		}
	}
}

func TestBankQuestionLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	created, err := svc.AddQuestion(admin.ID, bankReq("Math", "Algebra", "Easy"))
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if created.Complexity != model.ComplexityEasy {
		t.Errorf("Complexity = %q, want normalized %q", created.Complexity, model.ComplexityEasy)
	}
	if created.CreatedByID != admin.ID {
		t.Errorf("CreatedByID = %q, want %q", created.CreatedByID, admin.ID)
	}

	updated, err := svc.UpdateQuestion(created.ID, bankReq("Math", "Geometry", "hard"))
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.Topic != "Geometry" || updated.Complexity != model.ComplexityHard {
		t.Errorf("updated = %s/%s, want Geometry/hard", updated.Topic, updated.Complexity)
	}

	if err := svc.DeleteQuestion(created.ID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	if err := svc.DeleteQuestion(created.ID); !errors.Is(err, util.ErrBankQuestionNotFound) {
		t.Errorf("second delete = %v, want ErrBankQuestionNotFound", err)
	}
	if _, err := svc.UpdateQuestion(created.ID, bankReq("Math", "Algebra", "easy")); !errors.Is(err, util.ErrBankQuestionNotFound) {
		t.Errorf("update after delete = %v, want ErrBankQuestionNotFound", err)
	}
}

func TestListBankQuestionsFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	seedBank(t, svc, admin.ID, "Math", "Algebra", 1)
	seedBank(t, svc, admin.ID, "Math", "Geometry", 1)
	seedBank(t, svc, admin.ID, "Science", "Physics", 1)

	all, err := svc.ListQuestions("", "")
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(all) != 9 {
		t.Errorf("unfiltered count = %d, want 9", len(all))
	}

	math, err := svc.ListQuestions("Math", "")
	if err != nil {
		t.Fatalf("ListQuestions(Math): %v", err)
	}
	if len(math) != 6 {
		t.Errorf("Math count = %d, want 6", len(math))
	}

	geometry, err := svc.ListQuestions("Math", "Geometry")
	if err != nil {
		t.Fatalf("ListQuestions(Math, Geometry): %v", err)
	}
	if len(geometry) != 3 {
		t.Errorf("Math/Geometry count = %d, want 3", len(geometry))
	}
	for _, q := range geometry {
		if q.Subject != "Math" || q.Topic != "Geometry" {
			t.Errorf("filter leaked %s/%s into Math/Geometry list", q.Subject, q.Topic)
		}
	}
}

func TestBankAnalyticsCountsByTopic(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	seedBank(t, svc, admin.ID, "Math", "Algebra", 2)
	seedBank(t, svc, admin.ID, "Math", "Geometry", 1)
	seedBank(t, svc, admin.ID, "Science", "Physics", 5)

	stats, err := svc.Analytics("Math")
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}

	if stats.Overall.Total != 9 {
		t.Errorf("Overall.Total = %d, want 9", stats.Overall.Total)
	}
	if stats.Overall.Easy != 3 || stats.Overall.Medium != 3 || stats.Overall.Hard != 3 {
		t.Errorf("Overall split = %d/%d/%d, want 3/3/3",
			stats.Overall.Easy, stats.Overall.Medium, stats.Overall.Hard)
	}

	byTopic := map[string]TopicAnalytics{}
	for _, entry := range stats.ByTopic {
		byTopic[entry.Topic] = entry
	}
	if len(byTopic) != 2 {
		t.Fatalf("got %d topics, want 2 (Physics must be excluded)", len(byTopic))
	}
	if algebra := byTopic["Algebra"]; algebra.Total != 6 || algebra.Easy != 2 {
		t.Errorf("Algebra = total %d easy %d, want total 6 easy 2", algebra.Total, algebra.Easy)
	}
	if geometry := byTopic["Geometry"]; geometry.Total != 3 {
		t.Errorf("Geometry.Total = %d, want 3", geometry.Total)
	}
}

func TestGenerateExamFromBank(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	examSvc := newTestExamService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	seedBank(t, svc, admin.ID, "Math", "Algebra", 5)

	exam, err := svc.GenerateExam(admin.ID, GenerateExamReq{
		Subject:        "Math",
		TotalQuestions: 10,
		Difficulty:     DifficultySplit{Easy: 40, Medium: 30, Hard: 30},
		Points:         DifficultyPoints{Easy: 1, Medium: 2, Hard: 3},
		Title:          "Generated Midterm",
		PassingScore:   60,
	})
	if err != nil {
		t.Fatalf("GenerateExam: %v", err)
	}

	if len(exam.Questions) != 10 {
		t.Fatalf("got %d questions, want 10", len(exam.Questions))
	}

	bank, err := svc.ListQuestions("Math", "")
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	bankText := map[string]string{}
	for _, q := range bank {
		bankText[q.QuestionText] = q.Complexity
	}

	// 40%/30%/30%，Hard 吃整除余数：4 easy + 3 medium + 3 hard
	counts := map[string]int{}
	for i, q := range exam.Questions {
		if q.OrderNumber != i+1 {
			t.Errorf("question %d OrderNumber = %d, want %d", i, q.OrderNumber, i+1)
		}
		complexity, ok := bankText[q.QuestionText]
		if !ok {
			t.Fatalf("question %q not drawn from the bank", q.QuestionText)
		}
		counts[complexity]++

		wantPoints := map[string]int{
			model.ComplexityEasy:   1,
			model.ComplexityMedium: 2,
			model.ComplexityHard:   3,
		}[complexity]
		if q.Points != wantPoints {
			t.Errorf("%s question Points = %d, want %d", complexity, q.Points, wantPoints)
		}
	}
	if counts[model.ComplexityEasy] != 4 || counts[model.ComplexityMedium] != 3 || counts[model.ComplexityHard] != 3 {
		t.Errorf("difficulty counts = %d/%d/%d, want 4/3/3",
			counts[model.ComplexityEasy], counts[model.ComplexityMedium], counts[model.ComplexityHard])
	}

	// 生成的考试必须落库
	persisted, err := examSvc.GetExamDetail(exam.ID, model.Admin)
	if err != nil {
		t.Fatalf("GetExamDetail: %v", err)
	}
	if len(persisted.Questions) != 10 {
		t.Errorf("persisted question count = %d, want 10", len(persisted.Questions))
	}
}

func TestGenerateExamInsufficientBank(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	seedBank(t, svc, admin.ID, "Math", "Algebra", 2)

	_, err := svc.GenerateExam(admin.ID, GenerateExamReq{
		Subject:        "Math",
		TotalQuestions: 10,
		Difficulty:     DifficultySplit{Easy: 100},
		Title:          "Too Big",
	})
	if !errors.Is(err, util.ErrBankInsufficient) {
		t.Errorf("err = %v, want ErrBankInsufficient", err)
	}
}

func TestRegenerateExamReplacesQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	examSvc := newTestExamService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	seedBank(t, svc, admin.ID, "Math", "Algebra", 10)

	req := GenerateExamReq{
		Subject:        "Math",
		TotalQuestions: 6,
		Difficulty:     DifficultySplit{Easy: 50, Medium: 50},
		Title:          "Quiz",
		PassingScore:   50,
	}
	exam, err := svc.GenerateExam(admin.ID, req)
	if err != nil {
		t.Fatalf("GenerateExam: %v", err)
	}
	oldIDs := map[string]bool{}
	for _, q := range exam.Questions {
		oldIDs[q.ID] = true
	}

	req.Title = "Quiz v2"
	regenerated, err := svc.RegenerateExam(exam.ID, req)
	if err != nil {
		t.Fatalf("RegenerateExam: %v", err)
	}
	if regenerated.Title != "Quiz v2" {
		t.Errorf("Title = %q, want Quiz v2", regenerated.Title)
	}
	if len(regenerated.Questions) != 6 {
		t.Fatalf("got %d questions, want 6", len(regenerated.Questions))
	}

	persisted, err := examSvc.GetExamDetail(exam.ID, model.Admin)
	if err != nil {
		t.Fatalf("GetExamDetail: %v", err)
	}
	if len(persisted.Questions) != 6 {
		t.Fatalf("persisted question count = %d, want 6", len(persisted.Questions))
	}
	for _, q := range persisted.Questions {
		if oldIDs[q.ID] {
			t.Errorf("old question %s survived regeneration", q.ID)
		}
	}

	_, err = svc.RegenerateExam(model.GenerateUUID(), req)
	if !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("unknown exam = %v, want ErrExamNotFound", err)
	}
}

func buildBankSheet(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	all := append([][]string{bankColumns}, rows...)
	for r, row := range all {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestImportXLSX(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	sheet := buildBankSheet(t, [][]string{
		{"Math", "Algebra", "easy", "What is 2 + 2?", "4", "3", "5", "6", "A"},
		{"Math", "Algebra", "HARD", "Solve x^2 = 4", "x = 2", "x = ±2", "x = 4", "x = 0", "b"},
	})

	count, err := svc.ImportXLSX(admin.ID, sheet)
	if err != nil {
		t.Fatalf("ImportXLSX: %v", err)
	}
	if count != 2 {
		t.Errorf("imported %d rows, want 2", count)
	}

	questions, err := svc.ListQuestions("Math", "Algebra")
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	for _, q := range questions {
		if q.CreatedByID != admin.ID {
			t.Errorf("CreatedByID = %q, want %q", q.CreatedByID, admin.ID)
		}
		// 难度和答案在导入时统一大小写
		if q.QuestionText == "Solve x^2 = 4" {
			if q.Complexity != model.ComplexityHard {
				t.Errorf("Complexity = %q, want %q", q.Complexity, model.ComplexityHard)
			}
			if q.CorrectAnswer != "B" {
				t.Errorf("CorrectAnswer = %q, want B", q.CorrectAnswer)
			}
		}
	}
}

// 任何一行不合法都拒绝整个文件，不允许导入半批
func TestImportXLSXRejectsWholeFileOnBadRow(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	sheet := buildBankSheet(t, [][]string{
		{"Math", "Algebra", "easy", "What is 2 + 2?", "4", "3", "5", "6", "A"},
		{"Math", "Algebra", "impossible", "Bad row", "a", "b", "c", "d", "A"},
	})

	if _, err := svc.ImportXLSX(admin.ID, sheet); !errors.Is(err, util.ErrBankFileInvalid) {
		t.Fatalf("err = %v, want ErrBankFileInvalid", err)
	}

	questions, err := svc.ListQuestions("", "")
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("rejected import left %d rows behind", len(questions))
	}
}

func TestImportXLSXRejectsEmptyFile(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	if _, err := svc.ImportXLSX(admin.ID, buildBankSheet(t, nil)); !errors.Is(err, util.ErrBankFileInvalid) {
		t.Errorf("header-only file: err = %v, want ErrBankFileInvalid", err)
	}
	if _, err := svc.ImportXLSX(admin.ID, bytes.NewReader([]byte("not a spreadsheet"))); !errors.Is(err, util.ErrBankFileInvalid) {
		t.Errorf("garbage file: err = %v, want ErrBankFileInvalid", err)
	}
}

// 模板下载后可以直接填数据回传导入
func TestTemplateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBankService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	data, err := svc.Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("template is not a valid workbook: %v", err)
	}
	rows, err := f.GetRows(f.GetSheetName(0))
	f.Close()
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("template has %d rows, want header plus examples", len(rows))
	}
	for i, want := range bankColumns {
		if rows[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], want)
		}
	}

	count, err := svc.ImportXLSX(admin.ID, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("importing the template's example rows: %v", err)
	}
	if count != len(rows)-1 {
		t.Errorf("imported %d rows, want %d", count, len(rows)-1)
	}
}
