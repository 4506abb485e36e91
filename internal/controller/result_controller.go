package controller

import (
	"context"
	"edusync_backend/internal/middleware"
	"edusync_backend/internal/service"
	"edusync_backend/internal/util"
	"edusync_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	myResultsTitle  = "My Results"
	allResultsTitle = "All Assessment Results"
)

type ResultController struct {
	Service  *service.ResultService
	Sessions *service.ViewSessions
}

func NewResultController(svc *service.ResultService) *ResultController {
	return &ResultController{
		Service: svc,
		Sessions: service.NewViewSessions(func(ctx context.Context, caller *service.CallerContext, userOnly bool) ([]service.DisplayRow, error) {
			return svc.LoadView(ctx, caller, userOnly)
		}),
	}
}

// ResultViewResponse 成绩视图响应
type ResultViewResponse struct {
	Title       string            `json:"title"`
	ShowStudent bool              `json:"showStudent"`
	State       service.ViewState `json:"state"`
}

func viewResponse(state service.ViewState) ResultViewResponse {
	title := allResultsTitle
	if state.UserOnly {
		title = myResultsTitle
	}
	return ResultViewResponse{
		Title:       title,
		ShowStudent: !state.UserOnly,
		State:       state,
	}
}

func (c *ResultController) renderView(ctx *gin.Context, userOnly bool) {
	caller := middleware.GetCaller(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	state, err := c.Sessions.Get(caller.UserID).Load(ctx.Request.Context(), caller, userOnly)
	switch {
	case errors.Is(err, util.ErrViewSuperseded):
		util.Conflict(ctx, err.Error())
	case err != nil:
		logger.Log.Error("result view failed",
			zap.String("userId", caller.UserID),
			zap.Bool("userOnly", userOnly),
			zap.Error(err),
		)
		ctx.JSON(http.StatusInternalServerError, util.Response{
			Code:    http.StatusInternalServerError,
			Message: util.ResultsUnavailableMessage,
			Data:    viewResponse(state),
		})
	default:
		util.Success(ctx, viewResponse(state))
	}
}

// @Summary 我的成绩
// @Description 当前用户的成绩列表，不含学生列
// @Tags 成绩
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA 时区，如 Asia/Shanghai"
// @Success 200 {object} util.Response{data=ResultViewResponse}
// @Failure 409 {object} util.Response
// @Failure 500 {object} util.Response{data=ResultViewResponse}
// @Router /api/results/mine [get]
func (c *ResultController) MyResults(ctx *gin.Context) {
	c.renderView(ctx, true)
}

// @Summary 全部成绩（教师）
// @Description 所有学生的成绩列表，包含学生姓名列
// @Tags 成绩
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA 时区，如 Asia/Shanghai"
// @Success 200 {object} util.Response{data=ResultViewResponse}
// @Failure 409 {object} util.Response
// @Failure 500 {object} util.Response{data=ResultViewResponse}
// @Router /api/instructor/results [get]
func (c *ResultController) AllResults(ctx *gin.Context) {
	c.renderView(ctx, false)
}

// @Summary 成绩视图当前状态
// @Tags 成绩
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ViewState}
// @Router /api/results/view/state [get]
func (c *ResultController) ViewState(ctx *gin.Context) {
	caller := middleware.GetCaller(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	session, ok := c.Sessions.Lookup(caller.UserID)
	if !ok {
		util.Success(ctx, service.ViewState{Phase: service.ViewIdle})
		return
	}
	util.Success(ctx, session.Snapshot())
}

// @Summary 成绩原始记录
// @Description 教师返回全部，其他角色仅返回自己的
// @Tags 成绩
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Result}
// @Router /api/results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	caller := middleware.GetCaller(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.Service.ListResults(ctx.Request.Context(), caller)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary 提交成绩
// @Tags 成绩
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitResultRequest true "成绩信息"
// @Success 201 {object} util.Response{data=model.Result}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/results [post]
func (c *ResultController) SubmitResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitResult(ctx.Request.Context(), user.UserID, req)
	switch {
	case errors.Is(err, util.ErrInvalidScore):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAssessmentNotFound):
		util.NotFound(ctx)
	case err != nil:
		util.LogInternalError(ctx, err)
	default:
		util.Created(ctx, result)
	}
}
