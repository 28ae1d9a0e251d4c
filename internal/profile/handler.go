package profile

import (
	"fittrack/challenge-service/internal/dto"
	"fittrack/challenge-service/internal/middleware"
	"fittrack/challenge-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// errorMappings 领域错误对应的响应
var errorMappings = []dto.ErrorMapping{
	{Err: ErrProfileNotFound, Code: response.NotFound, Msg: "用户不存在"},
	{Err: ErrForbidden, Code: response.Forbidden, Msg: "无权限执行此操作"},
	{Err: ErrNotAcademy, Code: response.InvalidParameter, Msg: "目标用户不是健身房"},
	{Err: ErrNotAffiliable, Code: response.InvalidParameter, Msg: "只有学员和私教可以加入健身房"},
	{Err: ErrAlreadyAcademy, Code: response.Conflict, Msg: "该用户已经是健身房"},
}

// ProfileHandler 用户档案处理器
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler 创建处理器实例
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetMe 获取当前用户档案
// GET /api/v1/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// ListAcademies 健身房列表
// GET /api/v1/academies
func (h *ProfileHandler) ListAcademies(c *gin.Context) {
	result, err := h.service.ListAcademies(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// ListAcademyMembers 健身房成员列表
// GET /api/v1/academies/:id/members
func (h *ProfileHandler) ListAcademyMembers(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	academyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.InvalidParameter(c, "无效的健身房ID")
		return
	}

	result, err := h.service.ListAcademyMembers(c.Request.Context(), userID, academyID)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// PromoteToAcademy 提升为健身房
// POST /api/v1/profiles/:id/promote
func (h *ProfileHandler) PromoteToAcademy(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.InvalidParameter(c, "无效的用户ID")
		return
	}

	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.PromoteToAcademy(c.Request.Context(), userID, targetID, &req)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// AssignAcademy 设置所属健身房
// PUT /api/v1/profiles/:id/academy
func (h *ProfileHandler) AssignAcademy(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.InvalidParameter(c, "无效的用户ID")
		return
	}

	var req AssignAcademyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.AssignAcademy(c.Request.Context(), userID, targetID, &req)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

func unauthorized(c *gin.Context) {
	dto.ErrorResponse(c, response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("未登录"),
	))
}
