package controller

import (
	"errors"
	"fmt"
	"net/http"

	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BankController struct {
	BankService *service.BankService
}

func NewBankController(bankService *service.BankService) *BankController {
	return &BankController{BankService: bankService}
}

// AddQuestion godoc
// @Summary 新增题库题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.BankQuestionReq true "题目内容"
// @Success 200 {object} model.BankQuestion
// @Failure 400 {object} util.ErrorResponse
// @Router /api/admin/bank/questions [post]
func (c *BankController) AddQuestion(ctx *gin.Context) {
	var req service.BankQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	question, err := c.BankService.AddQuestion(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// ListQuestions godoc
// @Summary 题库列表
// @Description 按科目和知识点过滤，按创建时间倒序
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   subject query string false "科目"
// @Param   topic query string false "知识点"
// @Success 200 {array} model.BankQuestion
// @Router /api/admin/bank/questions [get]
func (c *BankController) ListQuestions(ctx *gin.Context) {
	questions, err := c.BankService.ListQuestions(ctx.Query("subject"), ctx.Query("topic"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// UpdateQuestion godoc
// @Summary 更新题库题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Param   body body service.BankQuestionReq true "题目内容"
// @Success 200 {object} model.BankQuestion
// @Failure 404 {object} util.ErrorResponse
// @Router /api/admin/bank/questions/{id} [put]
func (c *BankController) UpdateQuestion(ctx *gin.Context) {
	var req service.BankQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.BankService.UpdateQuestion(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrBankQuestionNotFound) {
			util.NotFound(ctx, "bank question not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题库题目
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Success 200 {object} object
// @Failure 404 {object} util.ErrorResponse
// @Router /api/admin/bank/questions/{id} [delete]
func (c *BankController) DeleteQuestion(ctx *gin.Context) {
	if err := c.BankService.DeleteQuestion(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrBankQuestionNotFound) {
			util.NotFound(ctx, "bank question not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "Question deleted"})
}

// Upload godoc
// @Summary 批量导入题库
// @Description 上传模板格式的表格，先全量校验再整批入库，任何一行不合法都拒绝整个文件
// @Tags 题库
// @Accept  mpfd
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "题库表格"
// @Success 200 {object} object "导入数量"
// @Failure 400 {object} util.ErrorResponse
// @Router /api/admin/bank/upload [post]
func (c *BankController) Upload(ctx *gin.Context) {
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

	count, err := c.BankService.ImportXLSX(claims.UserID, file)
	if err != nil {
		if errors.Is(err, util.ErrBankFileInvalid) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": fmt.Sprintf("imported %d questions", count), "count": count})
}

// DownloadTemplate godoc
// @Summary 下载题库导入模板
// @Tags 题库
// @Produce  octet-stream
// @Security ApiKeyAuth
// @Success 200 {file} binary
// @Router /api/admin/bank/template [get]
func (c *BankController) DownloadTemplate(ctx *gin.Context) {
	data, err := c.BankService.Template()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=question_bank_template.xlsx")
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Analytics godoc
// @Summary 题库难度分布统计
// @Description 按知识点统计各难度题量，subject 为空统计全库
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   subject query string false "科目"
// @Success 200 {object} service.BankAnalytics
// @Router /api/admin/bank/analytics [get]
func (c *BankController) Analytics(ctx *gin.Context) {
	analytics, err := c.BankService.Analytics(ctx.Query("subject"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// GenerateExam godoc
// @Summary 从题库组卷
// @Description 按难度配比随机抽题生成一场新考试
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.GenerateExamReq true "组卷参数"
// @Success 200 {object} model.Exam
// @Failure 400 {object} util.ErrorResponse "题库题量不足"
// @Router /api/admin/exams/from-bank [post]
func (c *BankController) GenerateExam(ctx *gin.Context) {
	var req service.GenerateExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.BankService.GenerateExam(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrBankInsufficient) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, exam)
}

// RegenerateExam godoc
// @Summary 重新组卷
// @Description 重新抽题并整体替换考试题目，已提交的答卷不受影响
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Param   body body service.GenerateExamReq true "组卷参数"
// @Success 200 {object} model.Exam
// @Failure 400 {object} util.ErrorResponse "题库题量不足"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/admin/exams/{id}/regenerate [put]
func (c *BankController) RegenerateExam(ctx *gin.Context) {
	var req service.GenerateExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.BankService.RegenerateExam(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx, "exam not found")
		case errors.Is(err, util.ErrBankInsufficient):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, exam)
}
