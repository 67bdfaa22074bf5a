package handler

import (
	"anoa.com/complainthub/internal/modules/stat/service"
	"anoa.com/complainthub/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	service service.StatService
}

func NewStatHandler(service service.StatService) *StatHandler {
	return &StatHandler{service: service}
}

func (h *StatHandler) GetSummary(c *gin.Context) {
	res, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Statistics retrieved successfully", res)
}

func (h *StatHandler) GetTotalUsers(c *gin.Context) {
	res, err := h.service.TotalUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Total users", res)
}

func (h *StatHandler) GetTotalComplaints(c *gin.Context) {
	res, err := h.service.TotalComplaints(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Total complaints", res)
}

func (h *StatHandler) GetTotalFeedbacks(c *gin.Context) {
	res, err := h.service.TotalFeedbacks(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Total feedbacks", res)
}

func (h *StatHandler) GetTotalByStatus(c *gin.Context) {
	status := c.Param("status")
	res, err := h.service.TotalByStatus(c.Request.Context(), status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Total "+status+" complaints", res)
}

func (h *StatHandler) GetCategoryPercentages(c *gin.Context) {
	res, err := h.service.CategoryPercentages(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Complaint percentages per category", res)
}
