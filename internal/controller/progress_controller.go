package controller

import (
	"time"

	"examdrill_backend/internal/service"
	"examdrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.SnapshotService
}

func NewProgressController(svc *service.SnapshotService) *ProgressController {
	return &ProgressController{Service: svc}
}

// @Summary Export study progress
// @Description Produces a versioned snapshot of answers, review cards, and
// @Description bookmarks keyed by question number.
// @Tags progress
// @Produce json
// @Param examId path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/progress/export [get]
func (c *ProgressController) Export(ctx *gin.Context) {
	snap, err := c.Service.Export(ctx.Request.Context(), ctx.Param("examId"), time.Now())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

// @Summary Import study progress
// @Description Replays a snapshot onto the exam. Re-importing the same
// @Description snapshot is a no-op for answers and bookmarks; card state is
// @Description overwritten with the snapshot's values.
// @Tags progress
// @Accept json
// @Produce json
// @Param examId path string true "exam id"
// @Param body body service.Snapshot true "snapshot"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/progress/import [post]
func (c *ProgressController) Import(ctx *gin.Context) {
	var snap service.Snapshot
	if err := ctx.ShouldBindJSON(&snap); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Import(ctx.Request.Context(), ctx.Param("examId"), &snap, time.Now())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
