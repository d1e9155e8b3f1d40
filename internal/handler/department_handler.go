package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/middleware"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/service"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/response"
)

type DepartmentHandler struct {
	departmentService service.DepartmentService
}

func NewDepartmentHandler(departmentService service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

func (h *DepartmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleUser, model.RoleManager, model.RoleApprover, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	departments := router.Group("/api/departments")
	{
		departments.GET("", anyRole, h.ListDepartments)
		departments.GET("/:id", anyRole, h.GetDepartment)
		departments.POST("", adminOnly, h.CreateDepartment)
		departments.PUT("/:id", adminOnly, h.UpdateDepartment)
		departments.DELETE("/:id", adminOnly, h.DeleteDepartment)
	}
}

// ListDepartments handles GET /api/departments
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Only active departments"
// @Success      200     {object}  response.Response{data=[]model.Department}
// @Router       /api/departments [get]
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	departments, err := h.departmentService.ListDepartments(c.Request.Context(), activeOnly)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, departments))
}

// GetDepartment handles GET /api/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	dept, err := h.departmentService.GetDepartmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dept))
}

// CreateDepartment handles POST /api/departments (admin only)
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var input service.DepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dept, err := h.departmentService.CreateDepartment(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, dept))
}

// UpdateDepartment handles PUT /api/departments/:id (admin only)
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	var input service.DepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dept, err := h.departmentService.UpdateDepartment(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dept))
}

// DeleteDepartment handles DELETE /api/departments/:id (admin only)
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	if err := h.departmentService.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Department deleted"))
}
