package controller

import (
	"strconv"
	"time"

	"examdrill_backend/internal/service"
	"examdrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudyController struct {
	Service *service.StudyService
}

func NewStudyController(svc *service.StudyService) *StudyController {
	return &StudyController{Service: svc}
}

// @Summary Next question to study
// @Description Due reviews come first, oldest due date first; otherwise the
// @Description lowest-numbered unseen question. done=true when neither exists.
// @Tags study
// @Produce json
// @Param examId path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/study/next [get]
func (c *StudyController) Next(ctx *gin.Context) {
	resp, err := c.Service.NextQuestion(ctx.Request.Context(), ctx.Param("examId"), time.Now())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// @Summary Submit an answer
// @Description Grades the selection, records the answer, and reschedules the
// @Description question's review card in one transaction.
// @Tags study
// @Accept json
// @Produce json
// @Param examId path string true "exam id"
// @Param body body service.SubmitAnswerRequest true "answer"
// @Success 201 {object} util.Response
// @Router /api/exams/{examId}/answers [post]
func (c *StudyController) SubmitAnswer(ctx *gin.Context) {
	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitAnswer(ctx.Request.Context(), ctx.Param("examId"), req, time.Now())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary Bookmark a question
// @Tags study
// @Produce json
// @Param examId path string true "exam id"
// @Param number path int true "question number"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/bookmarks/{number} [put]
func (c *StudyController) SetBookmark(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid question number")
		return
	}

	if err := c.Service.SetBookmark(ctx.Request.Context(), ctx.Param("examId"), number); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Remove a bookmark
// @Tags study
// @Produce json
// @Param examId path string true "exam id"
// @Param number path int true "question number"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/bookmarks/{number} [delete]
func (c *StudyController) RemoveBookmark(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid question number")
		return
	}

	if err := c.Service.RemoveBookmark(ctx.Request.Context(), ctx.Param("examId"), number); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary List bookmarks
// @Tags study
// @Produce json
// @Param examId path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/bookmarks [get]
func (c *StudyController) ListBookmarks(ctx *gin.Context) {
	bookmarks, err := c.Service.ListBookmarks(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, bookmarks)
}
