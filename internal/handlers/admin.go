// internal/handlers/admin.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/models"
	"github.com/aplv/catalogo-api/internal/services"
	"github.com/aplv/catalogo-api/internal/utils"
)

// ProductEditor is the edit sink behind the admin product routes.
type ProductEditor interface {
	Create(ctx context.Context, req *services.ProductRequest) (*models.Product, error)
	Update(ctx context.Context, slug string, req *services.ProductRequest) (*models.Product, error)
	Delete(ctx context.Context, slug string) error
}

type AdminHandler struct {
	products       ProductEditor
	catalogService *services.CatalogService
	storageService *services.StorageService
}

func NewAdminHandler(products ProductEditor, catalogService *services.CatalogService, storageService *services.StorageService) *AdminHandler {
	return &AdminHandler{
		products:       products,
		catalogService: catalogService,
		storageService: storageService,
	}
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		respondProductError(c, err)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"product": product,
		"catalog": h.catalogService.Status(),
	})
}

// PUT /admin/products/:slug
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		respondProductError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"product": product,
		"catalog": h.catalogService.Status(),
	})
}

// DELETE /admin/products/:slug
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondProductError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"deleted": c.Param("slug"),
		"catalog": h.catalogService.Status(),
	})
}

// POST /admin/images
func (h *AdminHandler) UploadProductImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Missing image file", err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadProductImage(file, header, c.PostForm("slug"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, result)
}

// DELETE /admin/images/*key
func (h *AdminHandler) DeleteProductImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, "produtos/") || strings.Contains(key, "..") {
		utils.BadRequestResponse(c, "Invalid image key", nil)
		return
	}
	if err := h.storageService.DeleteFile(key); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": key})
}

// POST /admin/catalog/reload
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	if err := h.catalogService.Reload(c.Request.Context()); err != nil {
		// the previous snapshot stays installed
		utils.ErrorResponse(c, http.StatusBadGateway, "CATALOG_RELOAD_FAILED", err.Error(), h.catalogService.Status())
		return
	}
	utils.SuccessResponse(c, h.catalogService.Status())
}

// GET /admin/options
func (h *AdminHandler) GetOptions(c *gin.Context) {
	brands, categories := h.catalogService.Declared()
	utils.SuccessResponse(c, gin.H{
		"brands":     brands,
		"categories": categories,
		"attributes": attributeKeys(),
	})
}

// attributeKeys lists the product attribute keys the edit form offers.
func attributeKeys() []string {
	var keys []string
	for _, class := range catalog.Classes() {
		keys = append(keys, class.HasKey)
		if class.MayKey != "" {
			keys = append(keys, class.MayKey)
		}
	}
	return keys
}

func respondProductError(c *gin.Context, err error) {
	switch {
	case utils.IsValidationError(err):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "Product")
	case errors.Is(err, services.ErrSlugTaken):
		utils.ConflictResponse(c, err.Error())
	default:
		logrus.WithError(err).WithField("slug", c.Param("slug")).Error("Product mutation failed")
		utils.InternalErrorResponse(c, "")
	}
}
