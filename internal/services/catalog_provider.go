// internal/services/catalog_provider.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/models"
)

// maxCatalogBytes bounds a remote catalog response.
const maxCatalogBytes = 64 << 20

var ErrEmptyCatalogDocument = errors.New("empty catalog document")

// NewCatalogProvider picks the provider named by CATALOG_SOURCE. db may be
// nil unless the source is the database.
func NewCatalogProvider(cfg config.CatalogConfig, db *gorm.DB) (catalog.Provider, error) {
	switch cfg.Source {
	case config.SourceDatabase:
		if db == nil {
			return nil, errors.New("database catalog source requires a database connection")
		}
		return NewDBCatalogProvider(db), nil
	case config.SourceFile:
		return NewFileCatalogProvider(cfg.File), nil
	case config.SourceHTTP:
		return NewHTTPCatalogProvider(cfg.URL, &http.Client{Timeout: cfg.LoadTimeout}), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
}

// DBCatalogProvider reads the catalog from postgres.
type DBCatalogProvider struct {
	db *gorm.DB
}

func NewDBCatalogProvider(db *gorm.DB) *DBCatalogProvider {
	return &DBCatalogProvider{db: db}
}

func (p *DBCatalogProvider) Load(ctx context.Context) (*catalog.Source, error) {
	var (
		products   []models.Product
		brands     []string
		categories []string
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := p.db.WithContext(gCtx).
			Preload("Empresa").
			Order("created_at ASC, slug ASC").
			Find(&products).Error
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := p.db.WithContext(gCtx).
			Model(&models.Company{}).
			Order("nome ASC").
			Pluck("nome", &brands).Error
		if err != nil {
			return fmt.Errorf("failed to load companies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := p.db.WithContext(gCtx).
			Model(&models.Product{}).
			Where("categoria <> ''").
			Distinct("categoria").
			Order("categoria ASC").
			Pluck("categoria", &categories).Error
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &catalog.Source{Products: products, Brands: brands, Categories: categories}, nil
}

// FileCatalogProvider reads a JSON export from disk on every load.
type FileCatalogProvider struct {
	path string
}

func NewFileCatalogProvider(path string) *FileCatalogProvider {
	return &FileCatalogProvider{path: path}
}

func (p *FileCatalogProvider) Load(ctx context.Context) (*catalog.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	src, err := DecodeCatalogJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.path, err)
	}
	return src, nil
}

// HTTPCatalogProvider fetches the catalog from a remote endpoint serving
// the same JSON as the file export.
type HTTPCatalogProvider struct {
	url    string
	client *http.Client
}

func NewHTTPCatalogProvider(url string, client *http.Client) *HTTPCatalogProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPCatalogProvider{url: url, client: client}
}

func (p *HTTPCatalogProvider) Load(ctx context.Context) (*catalog.Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog endpoint returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return DecodeCatalogJSON(data)
}

// DecodeCatalogJSON accepts either a bare product array or an object with
// products, brands and categories.
func DecodeCatalogJSON(data []byte) (*catalog.Source, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyCatalogDocument
	}

	src := &catalog.Source{}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &src.Products); err != nil {
			return nil, fmt.Errorf("invalid product list: %w", err)
		}
	} else if err := json.Unmarshal(data, src); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}

	for i := range src.Products {
		if src.Products[i].Atributos == nil {
			src.Products[i].Atributos = models.Attributes{}
		}
	}
	return src, nil
}
