package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
	Storage        *service.StorageService
}

func NewAttemptController(attemptService *service.AttemptService, storage *service.StorageService) *AttemptController {
	return &AttemptController{
		AttemptService: attemptService,
		Storage:        storage,
	}
}

// SubmitAttempt godoc
// @Summary 提交答卷
// @Description 服务端评分并写入不可变更的答卷记录，学生ID取当前登录用户
// @Tags 答卷
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubmitAttemptReq true "答卷内容"
// @Success 200 {object} model.ExamAttempt
// @Failure 400 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /api/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	var req service.SubmitAttemptReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.AttemptService.SubmitAttempt(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// GetAttempt godoc
// @Summary 答卷详情
// @Description 学生只能查自己的答卷，管理员不受限
// @Tags 答卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答卷ID"
// @Success 200 {object} model.ExamAttempt
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/attempts/{id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.AttemptService.GetAttempt(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx, "attempt not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attempt)
}

// ListMyAttempts godoc
// @Summary 我的答卷列表
// @Tags 答卷
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {array} model.ExamAttempt
// @Router /api/attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.AttemptService.ListMyAttempts(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// SaveDraft godoc
// @Summary 保存答题草稿
// @Description 考试进行中的自动保存，草稿只存 Redis，随 TTL 过期
// @Tags 答卷
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Param   body body service.AttemptDraft true "草稿内容"
// @Success 200 {object} object
// @Router /api/exams/{id}/draft [put]
func (c *AttemptController) SaveDraft(ctx *gin.Context) {
	var draft service.AttemptDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AttemptService.SaveDraft(ctx.Request.Context(), ctx.Param("id"), claims.UserID, &draft); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "draft saved"})
}

// GetDraft godoc
// @Summary 读取答题草稿
// @Description 断线重连后恢复答题进度，无草稿时返回空对象
// @Tags 答卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Success 200 {object} service.AttemptDraft
// @Router /api/exams/{id}/draft [get]
func (c *AttemptController) GetDraft(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	draft, err := c.AttemptService.GetDraft(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if draft == nil {
		util.Success(ctx, gin.H{})
		return
	}
	util.Success(ctx, draft)
}

// UploadSnapshot godoc
// @Summary 上传监考快照
// @Description 上传后返回 URL，客户端在提交答卷时带上这些 URL
// @Tags 答卷
// @Accept  mpfd
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "快照图片"
// @Success 200 {object} object "快照 URL"
// @Failure 400 {object} util.ErrorResponse
// @Router /api/proctoring/snapshots [post]
func (c *AttemptController) UploadSnapshot(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	filename := fmt.Sprintf("snapshots/%s/%d%s",
		claims.UserID,
		time.Now().UnixNano(),
		filepath.Ext(fileHeader.Filename),
	)

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
