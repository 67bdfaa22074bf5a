package handler

import (
	"context"

	"anoa.com/complainthub/internal/modules/attachment/dto"
	"anoa.com/complainthub/pkg/response"
	"github.com/gin-gonic/gin"
)

type JobRunner interface {
	RunByName(ctx context.Context, name string) error
}

// SweepJob is the scheduled orphan sweep whose counts the handler reports.
type SweepJob interface {
	GetName() string
	LastResult() *dto.SweepResponse
}

type AttachmentHandler struct {
	runner JobRunner
	sweep  SweepJob
}

func NewAttachmentHandler(runner JobRunner, sweep SweepJob) *AttachmentHandler {
	return &AttachmentHandler{runner: runner, sweep: sweep}
}

// Sweep runs the orphan cleanup job on demand.
func (h *AttachmentHandler) Sweep(c *gin.Context) {
	if err := h.runner.RunByName(c.Request.Context(), h.sweep.GetName()); err != nil {
		response.ResponseError(c, err)
		return
	}

	res := h.sweep.LastResult()
	if res == nil {
		res = &dto.SweepResponse{}
	}
	response.OK(c, "Orphaned attachments cleaned up", res)
}
