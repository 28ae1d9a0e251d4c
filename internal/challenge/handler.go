package challenge

import (
	"fittrack/challenge-service/internal/dto"
	"fittrack/challenge-service/internal/middleware"
	"fittrack/challenge-service/internal/profile"
	"fittrack/challenge-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// errorMappings 领域错误对应的响应
var errorMappings = []dto.ErrorMapping{
	{Err: ErrInvalidDate, Code: response.InvalidParameter, Msg: "日期格式错误，应为 YYYY-MM-DD"},
	{Err: ErrInvalidDateRange, Code: response.InvalidParameter, Msg: "结束日期必须晚于开始日期"},
	{Err: ErrInvalidRewardPoints, Code: response.InvalidParameter, Msg: "奖励积分不能为负数"},
	{Err: ErrInvalidChallengeType, Code: response.InvalidParameter, Msg: "未知的挑战类型"},
	{Err: ErrInvalidProgress, Code: response.InvalidParameter, Msg: "进度不能为负数"},
	{Err: ErrUnknownRole, Code: response.Forbidden, Msg: "未知的用户角色"},
	{Err: ErrAcademyMismatch, Code: response.Forbidden, Msg: "只能加入所属健身房的挑战"},
	{Err: ErrChallengeEnded, Code: response.Forbidden, Msg: "挑战已结束"},
	{Err: ErrInviteRequired, Code: response.Forbidden, Msg: "私有挑战需要邀请码"},
	{Err: ErrForbidden, Code: response.Forbidden, Msg: "无权限执行此操作"},
	{Err: ErrInvalidInviteCode, Code: response.NotFound, Msg: "邀请码无效"},
	{Err: ErrChallengeNotFound, Code: response.NotFound, Msg: "挑战不存在"},
	{Err: ErrNotParticipating, Code: response.NotFound, Msg: "未参与该挑战"},
	{Err: profile.ErrProfileNotFound, Code: response.NotFound, Msg: "用户不存在"},
	{Err: ErrAlreadyParticipating, Code: response.Conflict, Msg: "已经参与该挑战"},
	{Err: ErrDistributionInProgress, Code: response.Conflict, Msg: "积分正在发放中"},
}

// ChallengeHandler 挑战处理器
type ChallengeHandler struct {
	service ChallengeService
}

// NewChallengeHandler 创建处理器实例
func NewChallengeHandler(service ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{service: service}
}

// ListChallenges 获取可见的挑战列表
// GET /api/v1/challenges?filter=active|completed|all&q=
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ListChallengesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.ListChallenges(c.Request.Context(), userID, &req)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// GetChallenge 获取挑战详情
// GET /api/v1/challenges/:id
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	challengeID, ok := challengeIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.ViewChallengeDetail(c.Request.Context(), userID, challengeID)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// CreateChallenge 创建挑战
// POST /api/v1/challenges
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.CreateChallenge(c.Request.Context(), userID, &req)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// UpdateChallenge 修改挑战
// PUT /api/v1/challenges/:id
func (h *ChallengeHandler) UpdateChallenge(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	challengeID, ok := challengeIDParam(c)
	if !ok {
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.UpdateChallenge(c.Request.Context(), userID, challengeID, &req)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// DeleteChallenge 删除挑战
// DELETE /api/v1/challenges/:id
func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	challengeID, ok := challengeIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteChallenge(c.Request.Context(), userID, challengeID); err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, nil)
}

// JoinChallenge 加入公开挑战
// POST /api/v1/challenges/:id/join
func (h *ChallengeHandler) JoinChallenge(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	challengeID, ok := challengeIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.RequestJoin(c.Request.Context(), userID, challengeID)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// JoinByCode 通过邀请码加入
// POST /api/v1/challenges/join
func (h *ChallengeHandler) JoinByCode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.JoinChallengeByCode(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// LeaveChallenge 退出挑战
// DELETE /api/v1/challenges/:id/participation
func (h *ChallengeHandler) LeaveChallenge(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	challengeID, ok := challengeIDParam(c)
	if !ok {
		return
	}

	if err := h.service.LeaveChallenge(c.Request.Context(), userID, challengeID); err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, nil)
}

// UpdateProgress 更新进度
// PUT /api/v1/challenges/:id/progress
func (h *ChallengeHandler) UpdateProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	challengeID, ok := challengeIDParam(c)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.UpdateProgress(c.Request.Context(), userID, challengeID, &req)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// DistributeRewards 挑战结束后发放积分
// POST /api/v1/challenges/:id/rewards
func (h *ChallengeHandler) DistributeRewards(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	challengeID, ok := challengeIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.DistributeRewards(c.Request.Context(), userID, challengeID)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// GetMyPoints 当前用户积分
// GET /api/v1/me/points
func (h *ChallengeHandler) GetMyPoints(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.service.GetUserPoints(c.Request.Context(), userID)
	if err != nil {
		dto.HandleError(c, err, errorMappings)
		return
	}
	dto.SuccessResponse(c, result)
}

// currentUser 未登录时直接写入 401 响应
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("未登录"),
		))
	}
	return userID, ok
}

func challengeIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.InvalidParameter(c, "无效的挑战ID")
		return uuid.Nil, false
	}
	return id, true
}
