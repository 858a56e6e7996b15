// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aplv/catalogo-api/internal/database"
	"github.com/aplv/catalogo-api/internal/models"
	"github.com/aplv/catalogo-api/internal/utils"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("slug already in use")
)

// Reloader is notified after every successful mutation.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ProductService is the admin edit sink: it writes products to the database
// and asks the catalog to reload afterwards.
type ProductService struct {
	db       *gorm.DB
	reloader Reloader
}

type ProductRequest struct {
	Slug                  string            `json:"slug" validate:"required,slug"`
	Nome                  string            `json:"nome" validate:"required,max=255"`
	Empresa               string            `json:"empresa" validate:"omitempty,max=255"`
	Categoria             string            `json:"categoria" validate:"omitempty,max=100"`
	URL                   string            `json:"url" validate:"omitempty,url,max=1024"`
	Imagem                string            `json:"imagem" validate:"omitempty,max=1024"`
	Descricao             string            `json:"descricao"`
	Ingredientes          string            `json:"ingredientes"`
	DescricaoIngredientes string            `json:"descricao_ingredientes"`
	Alergicos             string            `json:"alergicos"`
	Origem                []string          `json:"origem" validate:"omitempty,dive,required,max=100"`
	Atributos             models.Attributes `json:"atributos" validate:"attribute_keys"`
}

// ProductRequestFrom converts a catalog record (e.g. from a JSON export)
// into a mutation payload.
func ProductRequestFrom(p *models.Product) *ProductRequest {
	return &ProductRequest{
		Slug:                  p.Slug,
		Nome:                  p.Nome,
		Empresa:               p.Brand(),
		Categoria:             p.Categoria,
		URL:                   p.URL,
		Imagem:                p.Imagem,
		Descricao:             p.Descricao,
		Ingredientes:          p.Ingredientes,
		DescricaoIngredientes: p.DescricaoIngredientes,
		Alergicos:             p.Alergicos,
		Origem:                p.Origem,
		Atributos:             p.Atributos.Clone(),
	}
}

func (r *ProductRequest) normalize() {
	r.Slug = strings.TrimSpace(r.Slug)
	r.Nome = strings.TrimSpace(r.Nome)
	r.Empresa = strings.TrimSpace(r.Empresa)
	r.Categoria = strings.TrimSpace(r.Categoria)
	if r.Atributos == nil {
		r.Atributos = models.Attributes{}
	}
	if r.Origem == nil {
		r.Origem = []string{}
	}
}

func NewProductService(db *gorm.DB, reloader Reloader) *ProductService {
	return &ProductService{
		db:       db,
		reloader: reloader,
	}
}

func (s *ProductService) Get(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Empresa").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Create(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	req.normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product *models.Product
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Unscoped().Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check slug: %w", err)
		}
		if count > 0 {
			return ErrSlugTaken
		}

		empresaID, err := s.companyID(tx, req.Empresa)
		if err != nil {
			return err
		}

		product = &models.Product{EmpresaID: empresaID}
		applyRequest(product, req)
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, "create", req.Slug)
	return s.Get(ctx, req.Slug)
}

// Update replaces every editable field of the product identified by slug.
// The payload may rename the product to a free slug.
func (s *ProductService) Update(ctx context.Context, slug string, req *ProductRequest) (*models.Product, error) {
	req.normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("slug = ?", slug).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to find product: %w", err)
		}

		if req.Slug != slug {
			var count int64
			if err := tx.Model(&models.Product{}).Unscoped().Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check slug: %w", err)
			}
			if count > 0 {
				return ErrSlugTaken
			}
		}

		empresaID, err := s.companyID(tx, req.Empresa)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"slug":                   req.Slug,
			"nome":                   req.Nome,
			"marca":                  req.Empresa,
			"empresa_id":             empresaID,
			"categoria":              req.Categoria,
			"url":                    req.URL,
			"imagem":                 req.Imagem,
			"descricao":              req.Descricao,
			"ingredientes":           req.Ingredientes,
			"descricao_ingredientes": req.DescricaoIngredientes,
			"alergicos":              req.Alergicos,
			"origem":                 pq.StringArray(req.Origem),
			"atributos":              req.Atributos,
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, "update", req.Slug)
	return s.Get(ctx, req.Slug)
}

// Delete removes the product permanently so its slug can be reused.
func (s *ProductService) Delete(ctx context.Context, slug string) error {
	result := s.db.WithContext(ctx).Unscoped().Where("slug = ?", slug).Delete(&models.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	s.afterMutation(ctx, "delete", slug)
	return nil
}

// Import upserts products by slug in one transaction and reloads once.
func (s *ProductService) Import(ctx context.Context, products []models.Product) (created, updated int, err error) {
	requests := make([]*ProductRequest, 0, len(products))
	for i := range products {
		req := ProductRequestFrom(&products[i])
		req.normalize()
		if err := utils.ValidateStruct(req); err != nil {
			return 0, 0, fmt.Errorf("product %d (%q): validation failed: %w", i, req.Slug, err)
		}
		requests = append(requests, req)
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		for _, req := range requests {
			empresaID, err := s.companyID(tx, req.Empresa)
			if err != nil {
				return err
			}

			var existing models.Product
			err = tx.Where("slug = ?", req.Slug).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				product := &models.Product{EmpresaID: empresaID}
				applyRequest(product, req)
				if err := tx.Create(product).Error; err != nil {
					return fmt.Errorf("failed to create %s: %w", req.Slug, err)
				}
				created++
			case err != nil:
				return fmt.Errorf("failed to find %s: %w", req.Slug, err)
			default:
				existing.EmpresaID = empresaID
				applyRequest(&existing, req)
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("failed to update %s: %w", req.Slug, err)
				}
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	s.afterMutation(ctx, "import", "")
	return created, updated, nil
}

// companyID upserts the company by name; an empty name means none.
func (s *ProductService) companyID(tx *gorm.DB, nome string) (*uuid.UUID, error) {
	if nome == "" {
		return nil, nil
	}
	var company models.Company
	if err := tx.Where(models.Company{Nome: nome}).FirstOrCreate(&company).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert company %q: %w", nome, err)
	}
	id := company.ID
	return &id, nil
}

func applyRequest(p *models.Product, req *ProductRequest) {
	p.Slug = req.Slug
	p.Nome = req.Nome
	p.Marca = req.Empresa
	p.Categoria = req.Categoria
	p.URL = req.URL
	p.Imagem = req.Imagem
	p.Descricao = req.Descricao
	p.Ingredientes = req.Ingredientes
	p.DescricaoIngredientes = req.DescricaoIngredientes
	p.Alergicos = req.Alergicos
	p.Origem = pq.StringArray(req.Origem)
	p.Atributos = req.Atributos
}

func (s *ProductService) afterMutation(ctx context.Context, action, slug string) {
	if s.reloader == nil {
		return
	}
	if err := s.reloader.Reload(ctx); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action": action,
			"slug":   slug,
		}).Warn("Catalog reload after mutation failed")
	}
}
