package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/middleware"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/policy"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/service"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/pagination"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/response"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleUser, model.RoleManager, model.RoleApprover, model.RoleAdmin)
	managerRole := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	approverRole := middleware.RequireRole(model.RoleApprover, model.RoleAdmin)
	reopenRole := middleware.RequireRole(model.RoleApprover)

	requests := router.Group("/api/requests")
	{
		requests.POST("", anyRole, h.CreateRequest)
		requests.GET("", anyRole, h.ListRequests)
		requests.GET("/:id", anyRole, h.GetRequest)
		requests.PUT("/:id", anyRole, h.UpdateRequest)
		requests.DELETE("/:id", anyRole, h.DeleteRequest)
		requests.GET("/:id/history", anyRole, h.ListHistory)

		requests.PUT("/:id/submit", anyRole, h.Submit)
		requests.PUT("/:id/manager-approve", managerRole, h.ManagerApprove)
		requests.PUT("/:id/manager-reject", managerRole, h.ManagerReject)
		requests.PUT("/:id/manager-return", managerRole, h.ManagerReturn)
		requests.PUT("/:id/approve", approverRole, h.Approve)
		requests.PUT("/:id/reject", approverRole, h.Reject)
		requests.PUT("/:id/return", approverRole, h.Return)
		requests.PUT("/:id/reopen", reopenRole, h.Reopen)
	}
}

// CreateRequest handles POST /api/requests
// @Summary      Create acquisition request
// @Description  Creates a new acquisition request in OPEN status with its items
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.RequestInput  true  "Request payload"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var input service.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), a, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRequests handles GET /api/requests with role-scoped visibility
// @Summary      List acquisition requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response
// @Router       /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	filter := service.RequestFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	requests, total, err := h.requestService.ListRequests(c.Request.Context(), a, filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetRequest handles GET /api/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.requestService.GetRequestByID(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateRequest handles PUT /api/requests/:id, replacing content and items
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var input service.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.UpdateRequest(c.Request.Context(), a, c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteRequest handles DELETE /api/requests/:id
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.requestService.DeleteRequest(c.Request.Context(), a, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Request deleted"))
}

// ListHistory handles GET /api/requests/:id/history
// @Summary      Request history
// @Description  Returns the immutable audit trail of a request in chronological order
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=[]service.HistoryResponse}
// @Router       /api/requests/{id}/history [get]
func (h *RequestHandler) ListHistory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	entries, err := h.requestService.ListHistory(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// Submit handles PUT /api/requests/:id/submit
// @Summary      Submit request for authorization
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      422  {object}  response.Response
// @Router       /api/requests/{id}/submit [put]
func (h *RequestHandler) Submit(c *gin.Context) {
	h.transition(c, false, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.Submit(c.Request.Context(), a, id)
	})
}

// ManagerApprove handles PUT /api/requests/:id/manager-approve
func (h *RequestHandler) ManagerApprove(c *gin.Context) {
	h.transition(c, false, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.ManagerApprove(c.Request.Context(), a, id)
	})
}

// ManagerReject handles PUT /api/requests/:id/manager-reject
func (h *RequestHandler) ManagerReject(c *gin.Context) {
	h.transition(c, true, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.ManagerReject(c.Request.Context(), a, id, reason)
	})
}

// ManagerReturn handles PUT /api/requests/:id/manager-return
func (h *RequestHandler) ManagerReturn(c *gin.Context) {
	h.transition(c, true, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.ManagerReturn(c.Request.Context(), a, id, reason)
	})
}

// Approve handles PUT /api/requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	h.transition(c, false, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.Approve(c.Request.Context(), a, id)
	})
}

// Reject handles PUT /api/requests/:id/reject
func (h *RequestHandler) Reject(c *gin.Context) {
	h.transition(c, true, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.Reject(c.Request.Context(), a, id, reason)
	})
}

// Return handles PUT /api/requests/:id/return
func (h *RequestHandler) Return(c *gin.Context) {
	h.transition(c, true, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.Return(c.Request.Context(), a, id, reason)
	})
}

// Reopen handles PUT /api/requests/:id/reopen
func (h *RequestHandler) Reopen(c *gin.Context) {
	h.transition(c, true, func(a policy.Actor, id, reason string) (service.RequestResponse, error) {
		return h.requestService.Reopen(c.Request.Context(), a, id, reason)
	})
}

// transition is the shared body of every workflow endpoint: optional reason
// payload, service call, standard envelope
func (h *RequestHandler) transition(c *gin.Context, needsReason bool, call func(a policy.Actor, id, reason string) (service.RequestResponse, error)) {
	a, ok := actor(c)
	if !ok {
		return
	}

	reason := ""
	if needsReason {
		var input service.ReasonInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Reason is required"))
			return
		}
		reason = input.Reason
	}

	result, err := call(a, c.Param("id"), reason)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
