package controller

import (
	"strconv"

	"examdrill_backend/internal/service"
	"examdrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 << 20 // 10 MiB

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary List an exam's questions
// @Tags questions
// @Produce json
// @Param examId path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	questions, err := c.Service.List(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary Get one question by number
// @Tags questions
// @Produce json
// @Param examId path string true "exam id"
// @Param number path int true "question number"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/questions/{number} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid question number")
		return
	}

	question, err := c.Service.Get(ctx.Request.Context(), ctx.Param("examId"), number)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Import questions from JSON
// @Tags questions
// @Accept json
// @Produce json
// @Param examId path string true "exam id"
// @Param body body service.ImportQuestionsRequest true "questions"
// @Success 201 {object} util.Response
// @Router /api/exams/{examId}/questions/import [post]
func (c *QuestionController) Import(ctx *gin.Context) {
	var req service.ImportQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Import(ctx.Request.Context(), ctx.Param("examId"), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary Attach an image to a question
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param examId path string true "exam id"
// @Param number path int true "question number"
// @Param file formData file true "image"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/questions/{number}/image [post]
func (c *QuestionController) UploadImage(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid question number")
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "image file is required")
		return
	}
	if header.Size > maxImageSize {
		util.BadRequest(ctx, "image exceeds the 10 MiB limit")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.Service.UploadImage(ctx.Request.Context(), ctx.Param("examId"), number, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"imageUrl": url})
}
