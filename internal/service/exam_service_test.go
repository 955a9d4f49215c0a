package service

import (
	"errors"
	"testing"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
)

func twoQuestions() []QuestionReq {
	return []QuestionReq{
		{
			QuestionText:  "1 + 1 = ?",
			OptionA:       "1",
			OptionB:       "2",
			OptionC:       "3",
			OptionD:       "4",
			CorrectAnswer: "B",
			Points:        5,
		},
		{
			QuestionText:  "2 * 3 = ?",
			OptionA:       "5",
			OptionB:       "4",
			OptionC:       "6",
			OptionD:       "8",
			CorrectAnswer: "C",
			Points:        10,
		},
	}
}

func TestCreateExamPersistsQuestionsInOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestExamService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	exam := seedExam(t, svc, admin.ID, 50, twoQuestions())

	if exam.ID == "" {
		t.Fatal("expected generated exam ID")
	}
	if exam.CreatedByID != admin.ID {
		t.Errorf("CreatedByID = %q, want %q", exam.CreatedByID, admin.ID)
	}
	if !exam.IsActive {
		t.Error("exam should default to active")
	}

	got, err := svc.GetExamDetail(exam.ID, model.Admin)
	if err != nil {
		t.Fatalf("GetExamDetail: %v", err)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(got.Questions))
	}
	for i, q := range got.Questions {
		if q.OrderNumber != i+1 {
			t.Errorf("question %d OrderNumber = %d, want %d", i, q.OrderNumber, i+1)
		}
		if q.ExamID != exam.ID {
			t.Errorf("question %d ExamID = %q, want %q", i, q.ExamID, exam.ID)
		}
	}
}

func TestListExamsFiltersInactiveForStudents(t *testing.T) {
	db := newTestDB(t)
	svc := newTestExamService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	active := seedExam(t, svc, admin.ID, 50, nil)

	inactive := false
	hidden, err := svc.CreateExam(admin.ID, CreateExamReq{
		Title:        "Hidden Exam",
		PassingScore: 50,
		IsActive:     &inactive,
	})
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	studentView, err := svc.ListExams(model.Student)
	if err != nil {
		t.Fatalf("ListExams(student): %v", err)
	}
	if len(studentView) != 1 || studentView[0].ID != active.ID {
		t.Errorf("student list = %d exams, want only the active one", len(studentView))
	}

	adminView, err := svc.ListExams(model.Admin)
	if err != nil {
		t.Fatalf("ListExams(admin): %v", err)
	}
	if len(adminView) != 2 {
		t.Errorf("admin list = %d exams, want 2", len(adminView))
	}
	found := false
	for _, e := range adminView {
		if e.ID == hidden.ID {
			found = true
		}
	}
	if !found {
		t.Error("admin list must include inactive exams")
	}
}

func TestGetExamDetailStripsAnswersForStudents(t *testing.T) {
	db := newTestDB(t)
	svc := newTestExamService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	exam := seedExam(t, svc, admin.ID, 50, twoQuestions())

	studentView, err := svc.GetExamDetail(exam.ID, model.Student)
	if err != nil {
		t.Fatalf("GetExamDetail(student): %v", err)
	}
	for _, q := range studentView.Questions {
		if q.CorrectAnswer != "" {
			t.Errorf("student view leaks correct answer for question %q", q.ID)
		}
	}

	adminView, err := svc.GetExamDetail(exam.ID, model.Admin)
	if err != nil {
		t.Fatalf("GetExamDetail(admin): %v", err)
	}
	for _, q := range adminView.Questions {
		if q.CorrectAnswer == "" {
			t.Errorf("admin view missing correct answer for question %q", q.ID)
		}
	}
}

func TestGetExamDetailUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := newTestExamService(db)

	_, err := svc.GetExamDetail(model.GenerateUUID(), model.Admin)
	if !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("err = %v, want ErrExamNotFound", err)
	}
}

func TestUpdateExamPartialFields(t *testing.T) {
	db := newTestDB(t)
	svc := newTestExamService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	exam := seedExam(t, svc, admin.ID, 50, nil)

	newTitle := "Renamed Exam"
	inactive := false
	updated, err := svc.UpdateExam(exam.ID, UpdateExamReq{
		Title:    &newTitle,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateExam: %v", err)
	}

	if updated.Title != newTitle {
		t.Errorf("Title = %q, want %q", updated.Title, newTitle)
	}
	if updated.IsActive {
		t.Error("IsActive should be false after update")
	}
	if updated.PassingScore != 50 {
		t.Errorf("PassingScore = %d, untouched field must keep its value", updated.PassingScore)
	}
}

func TestDeleteExamCascadesQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestExamService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	exam := seedExam(t, svc, admin.ID, 50, twoQuestions())

	if err := svc.DeleteExam(exam.ID); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}

	_, err := svc.GetExamDetail(exam.ID, model.Admin)
	if !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("exam lookup after delete = %v, want ErrExamNotFound", err)
	}

	var count int64
	if err := db.Model(&model.Question{}).Where("exam_id = ?", exam.ID).Count(&count).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if count != 0 {
		t.Errorf("%d questions survived exam deletion, want 0", count)
	}

	if err := svc.DeleteExam(exam.ID); !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("second delete = %v, want ErrExamNotFound", err)
	}
}

func TestListExamAttemptsPagination(t *testing.T) {
	db := newTestDB(t)
	examSvc := newTestExamService(db)
	attemptSvc := newTestAttemptService(db)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	exam := seedExam(t, examSvc, admin.ID, 50, twoQuestions())

	for i := 0; i < 3; i++ {
		student := seedUser(t, db, model.GenerateUUID()+"@example.com", model.Student)
		if _, err := attemptSvc.SubmitAttempt(student.ID, SubmitAttemptReq{ExamID: exam.ID}); err != nil {
			t.Fatalf("SubmitAttempt: %v", err)
		}
	}

	page, err := examSvc.ListExamAttempts(exam.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListExamAttempts: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages)
	}
	attempts, ok := page.Data.([]model.ExamAttempt)
	if !ok {
		t.Fatalf("Data is %T, want []model.ExamAttempt", page.Data)
	}
	if len(attempts) != 2 {
		t.Errorf("page 1 has %d attempts, want 2", len(attempts))
	}
}
