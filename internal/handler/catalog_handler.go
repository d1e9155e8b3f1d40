package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/middleware"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/service"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/response"
)

// CatalogHandler exposes the four item taxonomies. Reads are open to every
// role; mutations are admin only.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleUser, model.RoleManager, model.RoleApprover, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	itemTypes := router.Group("/api/item-types")
	{
		itemTypes.GET("", anyRole, h.ListItemTypes)
		itemTypes.POST("", adminOnly, h.CreateItemType)
		itemTypes.PUT("/:id", adminOnly, h.UpdateItemType)
	}

	itemCategories := router.Group("/api/item-categories")
	{
		itemCategories.GET("", anyRole, h.ListItemCategories)
		itemCategories.POST("", adminOnly, h.CreateItemCategory)
		itemCategories.PUT("/:id", adminOnly, h.UpdateItemCategory)
	}

	contractTypes := router.Group("/api/contract-types")
	{
		contractTypes.GET("", anyRole, h.ListContractTypes)
		contractTypes.POST("", adminOnly, h.CreateContractType)
		contractTypes.PUT("/:id", adminOnly, h.UpdateContractType)
	}

	acquisitionTypes := router.Group("/api/acquisition-types")
	{
		acquisitionTypes.GET("", anyRole, h.ListAcquisitionTypes)
		acquisitionTypes.POST("", adminOnly, h.CreateAcquisitionType)
		acquisitionTypes.PUT("/:id", adminOnly, h.UpdateAcquisitionType)
	}
}

func (h *CatalogHandler) ListItemTypes(c *gin.Context) {
	out, err := h.catalogService.ListItemTypes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func (h *CatalogHandler) CreateItemType(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.CreateItemType(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

func (h *CatalogHandler) UpdateItemType(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.UpdateItemType(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func (h *CatalogHandler) ListItemCategories(c *gin.Context) {
	out, err := h.catalogService.ListItemCategories(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func (h *CatalogHandler) CreateItemCategory(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.CreateItemCategory(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

func (h *CatalogHandler) UpdateItemCategory(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.UpdateItemCategory(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func (h *CatalogHandler) ListContractTypes(c *gin.Context) {
	out, err := h.catalogService.ListContractTypes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func (h *CatalogHandler) CreateContractType(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.CreateContractType(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

func (h *CatalogHandler) UpdateContractType(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.UpdateContractType(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func (h *CatalogHandler) ListAcquisitionTypes(c *gin.Context) {
	out, err := h.catalogService.ListAcquisitionTypes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func (h *CatalogHandler) CreateAcquisitionType(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.CreateAcquisitionType(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

func (h *CatalogHandler) UpdateAcquisitionType(c *gin.Context) {
	input, ok := bindCatalogInput(c)
	if !ok {
		return
	}
	out, err := h.catalogService.UpdateAcquisitionType(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

func bindCatalogInput(c *gin.Context) (service.CatalogInput, bool) {
	var input service.CatalogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return input, false
	}
	return input, true
}
