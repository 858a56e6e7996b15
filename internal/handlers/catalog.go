// internal/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/services"
	"github.com/aplv/catalogo-api/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /products?<filter query>
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	model := h.catalogService.Model()
	state := model.Decode(c.Request.URL.RawQuery)
	result := h.catalogService.Browse(state)

	etag := utils.CatalogETag(result.Catalog.Version, result.Query)
	c.Header("ETag", etag)
	c.Header("X-Catalog-Version", strconv.FormatUint(result.Catalog.Version, 10))
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	utils.SuccessResponseWithMeta(c, result, gin.H{
		"total":           result.Total,
		"filtered":        result.Filtered,
		"catalog_version": result.Catalog.Version,
	})
}

// GET /products/:slug
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, ok := h.catalogService.Index().Lookup(c.Param("slug"))
	if !ok {
		utils.NotFoundResponse(c, "Product")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"product": product,
		"unknown": product.IsUnknown(),
	})
}

// GET /products/:slug/check?<filter query>
func (h *CatalogHandler) CheckProduct(c *gin.Context) {
	model := h.catalogService.Model()
	state := model.Decode(c.Request.URL.RawQuery)

	verdict, ok := h.catalogService.Index().Check(c.Param("slug"), state)
	if !ok {
		utils.NotFoundResponse(c, "Product")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"slug":    c.Param("slug"),
		"verdict": verdict,
		"filters": state,
		"query":   model.Encode(state),
	})
}

// GET /brands
func (h *CatalogHandler) GetBrands(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"brands": h.catalogService.Index().Brands(),
	})
}

// GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	model := h.catalogService.Model()
	if !model.Profile().Categories {
		utils.SuccessResponse(c, gin.H{"categories": []string{}, "enabled": false})
		return
	}
	utils.SuccessResponse(c, gin.H{
		"categories": h.catalogService.Index().Categories(),
		"enabled":    true,
	})
}

// GET /attributes
func (h *CatalogHandler) GetAttributes(c *gin.Context) {
	model := h.catalogService.Model()
	profile := model.Profile()
	utils.SuccessResponse(c, gin.H{
		"classes":            catalog.Classes(),
		"keys":               model.Keys(),
		"defaults":           model.Default(),
		"unknown_gate":       profile.Gate,
		"categories_enabled": profile.Categories,
	})
}

type ApplyFilterRequest struct {
	Query string      `json:"query"`
	Key   string      `json:"key" validate:"required"`
	Value interface{} `json:"value"`
}

type ResetFiltersRequest struct {
	Query string `json:"query"`
}

// POST /filters/apply
func (h *CatalogHandler) ApplyFilter(c *gin.Context) {
	var req ApplyFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	session := catalog.NewSession(h.catalogService.Model(), req.Query)
	state, query, err := session.Apply(req.Key, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrUnknownFilter), errors.Is(err, catalog.ErrInvalidValue):
			utils.BadRequestResponse(c, err.Error(), gin.H{"key": req.Key})
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"filters":            state,
		"query":              query,
		"has_active_filters": state.HasActiveFilters(),
	})
}

// POST /filters/reset
func (h *CatalogHandler) ResetFilters(c *gin.Context) {
	var req ResetFiltersRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request body", err.Error())
			return
		}
	}

	state, query := catalog.NewSession(h.catalogService.Model(), req.Query).Reset()
	utils.SuccessResponse(c, gin.H{
		"filters":            state,
		"query":              query,
		"has_active_filters": state.HasActiveFilters(),
	})
}

// GET /catalog/status
func (h *CatalogHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, h.catalogService.Status())
}
