package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yakoovad/hackathon-teams/internal/auth"
	"github.com/yakoovad/hackathon-teams/internal/model"
	"github.com/yakoovad/hackathon-teams/internal/service"
	"github.com/yakoovad/hackathon-teams/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	team *service.TeamService
	user *service.UserService

	healthChecker HealthChecker
	tokens        *auth.TokenManager

	limiter         Limiter
	limiterRequests int
	limiterWindow   time.Duration

	basePath string

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithTeamService(team *service.TeamService) *Handler {
	h.team = team
	return h
}

func (h *Handler) WithUserService(user *service.UserService) *Handler {
	h.user = user
	return h
}

// WithTokenManager turns on bearer auth for mutating routes.
func (h *Handler) WithTokenManager(tokens *auth.TokenManager) *Handler {
	h.tokens = tokens
	return h
}

// WithRateLimiter turns on per-client rate limiting for mutating routes.
func (h *Handler) WithRateLimiter(l Limiter, requests int, window time.Duration) *Handler {
	h.limiter = l
	h.limiterRequests = requests
	h.limiterWindow = window
	return h
}

func (h *Handler) WithBasePath(path string) *Handler {
	h.basePath = path
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	guarded := h.mutationMiddleware()
	teams := h.basePath + "/teams"

	e.GET(teams, h.ListTeams)
	e.GET(teams+"/:id", h.GetTeam)
	e.GET(h.basePath+"/users", h.ListUsers)

	e.POST(teams, h.CreateTeam, guarded...)
	e.PUT(teams+"/:id", h.UpdateTeam, guarded...)
	e.DELETE(teams+"/delete", h.DeleteTeam, guarded...)
	e.POST(teams+"/leave", h.LeaveTeam, guarded...)
	e.POST(teams+"/join", h.JoinTeam, guarded...)
	e.POST(teams+"/approve", h.ApproveRequest, guarded...)
	e.POST(teams+"/reject", h.RejectRequest, guarded...)
	e.POST(teams+"/remove_member", h.RemoveMember, guarded...)
}

func (h *Handler) mutationMiddleware() []echo.MiddlewareFunc {
	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, RateLimitMiddleware(h.limiter, h.limiterRequests, h.limiterWindow))
	}
	if h.tokens != nil {
		mw = append(mw, AuthMiddleware(h.tokens))
	}
	return mw
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type leaveResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Disbanded bool   `json:"disbanded"`
}

func (h *Handler) CreateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamCreate{}
	if err := ProcessRequest(e, req, bind[model.TeamCreate], requireActor(func(r *model.TeamCreate) string {
		return r.LeaderID
	})); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	team, err := h.team.CreateTeam(e.Request().Context(), req)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, dataResponse{Success: true, Data: team})
}

func (h *Handler) ListTeams(e echo.Context) error {
	teams, err := h.team.ListTeams(e.Request().Context())
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) GetTeam(e echo.Context) error {
	team, err := h.team.GetTeam(e.Request().Context(), e.Param("id"))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) UpdateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")
	userID := e.QueryParam("user_id")

	req := &model.TeamUpdate{}
	if err := ProcessRequest(e, req, requireQuery[model.TeamUpdate]("user_id"), bind[model.TeamUpdate], requireActor(func(*model.TeamUpdate) string {
		return userID
	})); err != nil {
		l.Warn("invalid request", zap.String("team_id", teamID), zap.Any("error", err))
		return transportError(e, err)
	}

	team, err := h.team.UpdateTeam(e.Request().Context(), teamID, userID, req)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, dataResponse{Success: true, Data: team})
}

func (h *Handler) DeleteTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamAction{}
	if err := ProcessRequest(e, req, bind[model.TeamAction], requireActor(teamActionUser)); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	if err := h.team.DeleteTeam(e.Request().Context(), req.TeamID, req.UserID); err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, messageResponse{Success: true, Message: "Team deleted"})
}

func (h *Handler) LeaveTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamAction{}
	if err := ProcessRequest(e, req, bind[model.TeamAction], requireActor(teamActionUser)); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	disbanded, err := h.team.LeaveTeam(e.Request().Context(), req.TeamID, req.UserID)
	if err != nil {
		return transportError(e, err)
	}

	res := leaveResponse{Success: true, Message: "Left team", Disbanded: disbanded}
	if disbanded {
		res.Message = "Team disbanded because the leader left"
	}
	return e.JSON(http.StatusOK, res)
}

func (h *Handler) JoinTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamAction{}
	if err := ProcessRequest(e, req, bind[model.TeamAction], requireActor(teamActionUser)); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	if err := h.team.RequestJoin(e.Request().Context(), req.TeamID, req.UserID); err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, messageResponse{Success: true, Message: "Join request sent"})
}

func (h *Handler) ApproveRequest(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamRequestAction{}
	if err := ProcessRequest(e, req, bind[model.TeamRequestAction], requireActor(teamRequestLeader)); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	if err := h.team.ApproveRequest(e.Request().Context(), req.TeamID, req.LeaderID, req.TargetUserID); err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, messageResponse{Success: true, Message: "Join request approved"})
}

func (h *Handler) RejectRequest(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamRequestAction{}
	if err := ProcessRequest(e, req, bind[model.TeamRequestAction], requireActor(teamRequestLeader)); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	if err := h.team.RejectRequest(e.Request().Context(), req.TeamID, req.LeaderID, req.TargetUserID); err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, messageResponse{Success: true, Message: "Join request rejected"})
}

func (h *Handler) RemoveMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamRequestAction{}
	if err := ProcessRequest(e, req, bind[model.TeamRequestAction], requireActor(teamRequestLeader)); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	if err := h.team.RemoveMember(e.Request().Context(), req.TeamID, req.LeaderID, req.TargetUserID); err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, messageResponse{Success: true, Message: "Member removed"})
}

func (h *Handler) ListUsers(e echo.Context) error {
	users, err := h.user.ListUsers(e.Request().Context())
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, users)
}

func teamActionUser(r *model.TeamAction) string {
	return r.UserID
}

func teamRequestLeader(r *model.TeamRequestAction) string {
	return r.LeaderID
}

type errorResponse struct {
	Detail string            `json:"detail"`
	Code   service.ErrorCode `json:"code"`
}

func transportError(e echo.Context, err *service.Error) error {
	response := errorResponse{Detail: err.Message, Code: err.Code}

	switch err.Code {
	case service.ErrorCodeInvalidBody, service.ErrorCodeValidation:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	case service.ErrorCodeForbidden:
		return e.JSON(http.StatusForbidden, response)
	case service.ErrorCodeTeamNotFound, service.ErrorCodeRequestNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeConcurrentUpdate:
		return e.JSON(http.StatusConflict, response)
	case service.ErrorCodeRateLimited:
		return e.JSON(http.StatusTooManyRequests, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
