package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/middleware"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/service"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/response"
)

type ParameterHandler struct {
	parameterService service.ParameterService
}

func NewParameterHandler(parameterService service.ParameterService) *ParameterHandler {
	return &ParameterHandler{parameterService: parameterService}
}

func (h *ParameterHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	parameters := router.Group("/api/parameters", adminOnly)
	{
		parameters.GET("", h.ListParameters)
		parameters.GET("/:key", h.GetParameter)
		parameters.PUT("", h.SetParameter)
		parameters.DELETE("/:key", h.DeleteParameter)
	}
}

// ListParameters handles GET /api/parameters (admin only)
func (h *ParameterHandler) ListParameters(c *gin.Context) {
	params, err := h.parameterService.ListParameters(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, params))
}

// GetParameter handles GET /api/parameters/:key
func (h *ParameterHandler) GetParameter(c *gin.Context) {
	param, err := h.parameterService.GetParameter(c.Request.Context(), c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, param))
}

// SetParameter handles PUT /api/parameters, upserting by key
func (h *ParameterHandler) SetParameter(c *gin.Context) {
	var input service.ParameterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	param, err := h.parameterService.SetParameter(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, param))
}

// DeleteParameter handles DELETE /api/parameters/:key
func (h *ParameterHandler) DeleteParameter(c *gin.Context) {
	if err := h.parameterService.DeleteParameter(c.Request.Context(), c.Param("key")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Parameter deleted"))
}
