package handler

import (
	"anoa.com/complainthub/internal/modules/category/dto"
	"anoa.com/complainthub/internal/modules/category/service"
	"anoa.com/complainthub/pkg/response"
	"anoa.com/complainthub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(service service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.service.GetAllCategories(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Category successfully deleted", nil)
}
