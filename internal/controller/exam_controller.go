package controller

import (
	"time"

	"examdrill_backend/internal/service"
	"examdrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.ExamService
	Stats   *service.StatsService
}

func NewExamController(svc *service.ExamService, stats *service.StatsService) *ExamController {
	return &ExamController{Service: svc, Stats: stats}
}

// @Summary Create an exam
// @Tags exams
// @Accept json
// @Produce json
// @Param body body service.CreateExamRequest true "exam"
// @Success 201 {object} util.Response
// @Router /api/exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	var req service.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.Create(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// @Summary List exams with study counters
// @Tags exams
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	summaries, err := c.Service.List(ctx.Request.Context(), time.Now())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// @Summary Get an exam
// @Tags exams
// @Produce json
// @Param examId path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId} [get]
func (c *ExamController) Get(ctx *gin.Context) {
	exam, err := c.Service.Get(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary Update an exam
// @Tags exams
// @Accept json
// @Produce json
// @Param examId path string true "exam id"
// @Param body body service.UpdateExamRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	var req service.UpdateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.Update(ctx.Request.Context(), ctx.Param("examId"), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary Delete an exam and all of its study data
// @Tags exams
// @Produce json
// @Param examId path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	counts, err := c.Service.Delete(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, counts)
}

// @Summary Exam statistics with per-section breakdown
// @Tags stats
// @Produce json
// @Param examId path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/stats [get]
func (c *ExamController) GetStats(ctx *gin.Context) {
	stats, err := c.Stats.ExamStats(ctx.Request.Context(), ctx.Param("examId"), time.Now())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
