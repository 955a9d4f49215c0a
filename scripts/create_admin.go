// 创建管理员账号脚本
//
// 注册接口出于安全考虑只允许创建 student 角色，
// 管理员账号通过此脚本在部署侧手动创建。
//
// 用法: go run scripts/create_admin.go -email admin@example.com -password <密码> -name 管理员
package main

import (
	"errors"
	"flag"
	"log"

	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "管理员邮箱")
	password := flag.String("password", "", "登录密码，至少 6 位")
	name := flag.String("name", "Administrator", "显示名称")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		log.Fatal("必须提供 -email，且 -password 至少 6 位")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	if _, err := userRepo.FindByEmail(*email); err == nil {
		log.Fatalf("邮箱 %s 已被注册", *email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("查询用户失败: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码哈希失败: %v", err)
	}

	admin := &model.User{
		UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
		Email:    *email,
		Password: string(hashed),
		FullName: *name,
		Role:     model.Admin,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	log.Printf("管理员 %s 创建成功, ID: %s", admin.Email, admin.ID)
}
