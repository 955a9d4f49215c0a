package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// 每个测试独立的共享内存库，避免连接池拿到不同的 :memory: 实例
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			ExpireTime: time.Hour,
		},
	}
}

func newTestAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		testConfig(),
	)
}

func newTestExamService(db *gorm.DB) *ExamService {
	return NewExamService(
		repository.NewExamRepository(db),
		repository.NewAttemptRepository(db),
	)
}

func newTestBankService(db *gorm.DB) *BankService {
	return NewBankService(
		repository.NewBankRepository(db),
		repository.NewExamRepository(db),
	)
}

func newTestAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(
		repository.NewAttemptRepository(db),
		repository.NewExamRepository(db),
		nil,
	)
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
		Email:    email,
		Password: "not-a-real-hash",
		FullName: "Test User",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedExam(t *testing.T, svc *ExamService, creatorID string, passingScore int, questions []QuestionReq) *model.Exam {
	t.Helper()
	exam, err := svc.CreateExam(creatorID, CreateExamReq{
		Title:        "Seed Exam",
		PassingScore: passingScore,
		Questions:    questions,
	})
	if err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	return exam
}
