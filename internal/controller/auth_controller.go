package controller

import (
	"errors"

	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

// Register godoc
// @Summary 注册新用户
// @Description 新用户一律以 student 角色注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 200 {object} object "注册成功"
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 409 {object} util.ErrorResponse "邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.AuthService.Register(req.Email, req.Password, req.FullName); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(ctx, "email already registered")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "User registered successfully"})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验凭据并返回JWT令牌和用户信息
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} object "token 和用户信息"
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 401 {object} util.ErrorResponse "凭据无效"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Email, req.Password, ctx.ClientIP())
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, 401, "invalid email or password")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}
