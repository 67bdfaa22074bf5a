package handler

import (
	"anoa.com/complainthub/internal/middleware"
	"anoa.com/complainthub/internal/modules/complaint/dto"
	"anoa.com/complainthub/internal/modules/complaint/service"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/response"
	"anoa.com/complainthub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComplaintHandler struct {
	service service.ComplaintService
}

func NewComplaintHandler(service service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	evidence, closeFile, err := response.FormFile(c, "evidence")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFile()

	complaint, err := h.service.CreateComplaint(c.Request.Context(), userID, req, evidence)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "Complaint created successfully", complaint)
}

func (h *ComplaintHandler) GetAllComplaints(c *gin.Context) {
	var query commonDto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	complaints, meta, err := h.service.GetAllComplaints(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Complaints retrieved successfully", complaints, meta)
}

func (h *ComplaintHandler) SearchComplaints(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	complaints, meta, err := h.service.SearchComplaints(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Complaints retrieved successfully", complaints, meta)
}

func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	complaint, err := h.service.GetComplaint(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Complaint retrieved successfully", complaint)
}

func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	evidence, closeFile, err := response.FormFile(c, "evidence")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFile()

	complaint, err := h.service.UpdateComplaint(c.Request.Context(), id, userID, req, evidence)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Complaint updated successfully", complaint)
}

func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.DeleteComplaint(c.Request.Context(), identity, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Complaint successfully deleted", res)
}

func (h *ComplaintHandler) DeleteHistory(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.DeleteHistory(c.Request.Context(), identity, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Complaint successfully deleted from history", res)
}

func (h *ComplaintHandler) DeleteAllHistories(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query dto.DeleteHistoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	userID := identity.UserID
	if query.UserID != "" {
		userID = uuid.MustParse(query.UserID)
	}

	res, err := h.service.DeleteAllHistories(c.Request.Context(), identity, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "All histories successfully deleted", res)
}
