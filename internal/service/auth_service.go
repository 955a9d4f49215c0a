package service

import (
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 未注册邮箱登录时用于比对的哈希，保证两种失败路径都付出一次 bcrypt 开销
var dummyPasswordHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type AuthService struct {
	UserRepo    *repository.UserRepository
	SessionRepo *repository.SessionRepository
	Cfg         *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, sessionRepo *repository.SessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Cfg:         cfg,
	}
}

// Register 注册新用户，角色一律为 student，不信任客户端传入的角色
func (s *AuthService) Register(email, password, fullName string) (*model.User, error) {
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		Role:     model.Student,
	}

	if err := s.UserRepo.Create(user); err != nil {
		// 并发注册同一邮箱时查重可能漏判，兜底靠唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}
	return user, nil
}

// Login 校验凭据并签发令牌。邮箱不存在与密码错误返回同一错误，
// 且都经过一次 bcrypt 比对，避免时间差泄露账号是否存在。
func (s *AuthService) Login(email, password, clientIP string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	jti := model.GenerateUUID()
	token, err := util.GenerateJWT(user, jti, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	// 学生顶号：旧会话全部失效
	if user.Role == model.Student {
		if err := s.SessionRepo.DeactivateByUser(user.ID); err != nil {
			return "", nil, err
		}
	}

	expiresAt := time.Now().Add(s.Cfg.JWT.ExpireTime)
	session := &model.UserSession{
		UUIDBase:  model.UUIDBase{ID: model.GenerateUUID()},
		UserID:    user.ID,
		Jti:       jti,
		IP:        clientIP,
		Active:    true,
		ExpiresAt: &expiresAt,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return "", nil, err
	}

	return token, user, nil
}
