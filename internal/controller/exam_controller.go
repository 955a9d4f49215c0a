package controller

import (
	"errors"
	"strconv"

	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// ListExams godoc
// @Summary 考试列表
// @Description 按创建时间倒序返回考试，学生只能看到已激活的
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {array} model.Exam
// @Failure 401 {object} util.ErrorResponse
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exams, err := c.ExamService.ListExams(claims.Role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// GetExamDetail godoc
// @Summary 考试详情
// @Description 返回考试及按展示顺序排列的题目，学生视图不含正确答案
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Success 200 {object} model.Exam
// @Failure 404 {object} util.ErrorResponse "考试不存在"
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExamDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.GetExamDetail(ctx.Param("id"), claims.Role)
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx, "exam not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, exam)
}

// CreateExam godoc
// @Summary 创建考试
// @Description 考试与题目在一个事务中写入，创建人取当前管理员
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateExamReq true "考试及题目"
// @Success 200 {object} model.Exam
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /api/admin/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req service.CreateExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.CreateExam(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// UpdateExam godoc
// @Summary 更新考试
// @Description 部分更新，未出现的字段保持不变
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Param   body body service.UpdateExamReq true "待更新字段"
// @Success 200 {object} model.Exam
// @Failure 404 {object} util.ErrorResponse
// @Router /api/admin/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	var req service.UpdateExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.UpdateExam(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx, "exam not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, exam)
}

// DeleteExam godoc
// @Summary 删除考试
// @Description 级联删除该考试的全部题目
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Success 200 {object} object
// @Failure 404 {object} util.ErrorResponse
// @Router /api/admin/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	if err := c.ExamService.DeleteExam(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx, "exam not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "Exam deleted"})
}

// ListExamAttempts godoc
// @Summary 某场考试的全部答卷
// @Description 管理端分页查询，按开始时间倒序
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(50)
// @Success 200 {object} util.PageResponse
// @Router /api/admin/exams/{id}/attempts [get]
func (c *ExamController) ListExamAttempts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	result, err := c.ExamService.ListExamAttempts(ctx.Param("id"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
