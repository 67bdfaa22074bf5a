package handler

import (
	"context"
	"errors"
	"io"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/internal/middleware"
	"anoa.com/complainthub/internal/modules/feedback/dto"
	"anoa.com/complainthub/internal/modules/feedback/service"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/response"
	"anoa.com/complainthub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FeedbackHandler struct {
	service service.FeedbackService
}

func NewFeedbackHandler(service service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func (h *FeedbackHandler) ProcessComplaint(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	complaintID, err := response.ParamUUID(c, "complaintId")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	// the body is optional
	var req dto.ProcessRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.ResponseError(c, validator.Wrap(err))
			return
		}
	}

	complaint, err := h.service.ProcessComplaint(c.Request.Context(), identity, complaintID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Complaint is being processed", complaint)
}

func (h *FeedbackHandler) ApproveComplaint(c *gin.Context) {
	h.decide(c, "Complaint approved successfully", h.service.ApproveComplaint)
}

func (h *FeedbackHandler) RejectComplaint(c *gin.Context) {
	h.decide(c, "Complaint rejected successfully", h.service.RejectComplaint)
}

func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	feedback, err := h.service.GetFeedback(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Admin feedback retrieved successfully", feedback)
}

func (h *FeedbackHandler) GetAllFeedbacks(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	feedbacks, err := h.service.GetAllFeedbacks(c.Request.Context(), identity)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Admin feedbacks retrieved successfully", feedbacks)
}

type decideFunc func(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.FeedbackRequest, attachment *commonDto.UploadFile) (*dto.FeedbackResponse, error)

func (h *FeedbackHandler) decide(c *gin.Context, message string, fn decideFunc) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	complaintID, err := response.ParamUUID(c, "complaintId")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	attachment, closeFile, err := response.FormFile(c, "attachment")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFile()

	feedback, err := fn(c.Request.Context(), identity, complaintID, req, attachment)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, message, feedback)
}
