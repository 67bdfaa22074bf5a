package handler

import (
	"fmt"

	"anoa.com/complainthub/internal/middleware"
	"anoa.com/complainthub/internal/modules/user/dto"
	"anoa.com/complainthub/internal/modules/user/service"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/response"
	"anoa.com/complainthub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "User registered, pending admin verification", user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "You're logged in", res)
}

func (h *UserHandler) Logout(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "You're logged out", dto.LogoutResponse{IsLoggedOut: true})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "User found", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	avatar, closeFile, err := response.FormFile(c, "avatar")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFile()

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req, avatar)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "User successfully updated", user)
}

func (h *UserHandler) GetComplaints(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetComplaints(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Complaints found: %d", len(res.Complaints)), res)
}

// GetAllUsers is admin only.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query commonDto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	users, meta, err := h.service.GetAllUsers(c.Request.Context(), identity, query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Users retrieved", users, meta)
}

func (h *UserHandler) VerifyUser(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.VerifyUser(c.Request.Context(), identity, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Account verified successfully", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.DeleteUser(c.Request.Context(), identity, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "User deleted successfully", res)
}
