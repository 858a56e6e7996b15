// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/metrics"
	"github.com/aplv/catalogo-api/internal/models"
)

// CatalogStatus is what the front end needs to show a stale or failed
// catalog.
type CatalogStatus struct {
	Version   uint64     `json:"version"`
	Products  int        `json:"products"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	Failed    bool       `json:"failed"`
	LastError string     `json:"last_error,omitempty"`
}

// CatalogService owns the installed catalog snapshot. Reloads may overlap;
// the most recently started successful reload wins and a failed reload
// never replaces a good snapshot.
type CatalogService struct {
	provider catalog.Provider
	model    *catalog.Model
	memoSize int
	timeout  time.Duration

	issued atomic.Uint64

	mu           sync.RWMutex
	index        *catalog.Index
	installedSeq uint64
	statusSeq    uint64
	brands       []string
	categories   []string
	status       CatalogStatus
}

type CatalogOptions struct {
	MemoSize int
	// LoadTimeout bounds one provider call; zero means no extra bound.
	LoadTimeout time.Duration
}

func NewCatalogService(provider catalog.Provider, model *catalog.Model, opts CatalogOptions) *CatalogService {
	idx := catalog.EmptyIndex(model.Evaluator())
	return &CatalogService{
		provider: provider,
		model:    model,
		memoSize: opts.MemoSize,
		timeout:  opts.LoadTimeout,
		index:    idx,
		status:   CatalogStatus{Version: idx.Version()},
	}
}

func (s *CatalogService) Model() *catalog.Model {
	return s.model
}

// Index returns the installed snapshot. It is never nil.
func (s *CatalogService) Index() *catalog.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

func (s *CatalogService) Status() CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Declared returns the brand and category lists reported by the provider,
// falling back to the lists derived from the products.
func (s *CatalogService) Declared() (brands, categories []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	brands, categories = s.brands, s.categories
	if len(brands) == 0 {
		brands = s.index.Brands()
	}
	if len(categories) == 0 {
		categories = s.index.Categories()
	}
	return append([]string(nil), brands...), append([]string(nil), categories...)
}

// Reload loads the catalog and installs it unless a newer reload has
// already been installed.
func (s *CatalogService) Reload(ctx context.Context) error {
	seq := s.issued.Add(1)
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	idx, src, err := s.load(ctx)
	metrics.CatalogReloadDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		if seq > s.statusSeq {
			s.statusSeq = seq
			s.status.Failed = true
			s.status.LastError = err.Error()
			metrics.CatalogLoadFailed.Set(1)
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"seq":     seq,
			"version": s.index.Version(),
		}).Warn("Catalog reload failed, keeping previous snapshot")
		return err
	}

	if seq < s.installedSeq {
		metrics.CatalogReloads.WithLabelValues("stale").Inc()
		logrus.WithFields(logrus.Fields{
			"seq":       seq,
			"installed": s.installedSeq,
		}).Info("Discarding stale catalog reload")
		return nil
	}

	now := time.Now()
	s.index = idx
	s.installedSeq = seq
	s.brands = src.Brands
	s.categories = src.Categories
	s.status.Version = idx.Version()
	s.status.Products = idx.Len()
	s.status.LoadedAt = &now
	if seq > s.statusSeq {
		s.statusSeq = seq
		s.status.Failed = false
		s.status.LastError = ""
		metrics.CatalogLoadFailed.Set(0)
	}

	metrics.CatalogReloads.WithLabelValues("success").Inc()
	metrics.CatalogProducts.Set(float64(idx.Len()))
	logrus.WithFields(logrus.Fields{
		"seq":        seq,
		"version":    idx.Version(),
		"products":   idx.Len(),
		"brands":     len(idx.Brands()),
		"categories": len(idx.Categories()),
		"duration":   time.Since(start).Milliseconds(),
	}).Info("Catalog installed")
	return nil
}

func (s *CatalogService) load(ctx context.Context) (*catalog.Index, *catalog.Source, error) {
	src, err := s.provider.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if src == nil {
		src = &catalog.Source{}
	}

	var opts []catalog.IndexOption
	if s.memoSize != 0 {
		opts = append(opts, catalog.WithMemoSize(s.memoSize))
	}
	idx, err := catalog.NewIndex(src.Products, s.model.Evaluator(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to index catalog: %w", err)
	}
	return idx, src, nil
}

// Start reloads every interval until ctx is cancelled. A non-positive
// interval disables the refresher.
func (s *CatalogService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// failures are logged and reflected in Status
				_ = s.Reload(ctx)
			}
		}
	}()
}

// BrowseResult is one evaluated page of the catalog.
type BrowseResult struct {
	Products         []models.Product    `json:"products"`
	Total            int                 `json:"total"`
	Filtered         int                 `json:"filtered"`
	Brands           []string            `json:"brands"`
	Categories       []string            `json:"categories"`
	Filters          catalog.FilterState `json:"filters"`
	Query            string              `json:"query"`
	HasActiveFilters bool                `json:"has_active_filters"`
	Catalog          CatalogStatus       `json:"catalog"`
}

// Browse evaluates state against the installed snapshot.
func (s *CatalogService) Browse(state catalog.FilterState) *BrowseResult {
	s.mu.RLock()
	idx, status := s.index, s.status
	s.mu.RUnlock()

	start := time.Now()
	products := idx.Filtered(state)
	metrics.FilterDuration.Observe(time.Since(start).Seconds())
	metrics.FilterResults.Observe(float64(len(products)))

	return &BrowseResult{
		Products:         products,
		Total:            idx.Len(),
		Filtered:         len(products),
		Brands:           idx.Brands(),
		Categories:       idx.Categories(),
		Filters:          state,
		Query:            s.model.Encode(state),
		HasActiveFilters: state.HasActiveFilters(),
		Catalog:          status,
	}
}
