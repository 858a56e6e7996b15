// internal/catalog/index.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/aplv/catalogo-api/internal/models"
)

var (
	ErrMissingSlug   = errors.New("product without slug")
	ErrDuplicateSlug = errors.New("duplicate product slug")
)

// Source is what a catalog provider yields. Brands and Categories are the
// values the backing store declares (e.g. companies with no products yet);
// the index derives its own option lists from Products.
type Source struct {
	Products   []models.Product `json:"products"`
	Brands     []string         `json:"brands"`
	Categories []string         `json:"categories"`
}

// Provider loads the full catalog from wherever it lives.
type Provider interface {
	Load(ctx context.Context) (*Source, error)
}

var versions atomic.Uint64

// Index is an immutable catalog snapshot. Brand and category lists are
// computed once at construction; filtered results are memoized per state.
type Index struct {
	version    uint64
	products   []models.Product
	bySlug     map[string]int
	brands     []string
	categories []string
	evaluator  Evaluator
	memo       *memo
}

type IndexOption func(*Index)

// WithMemoSize bounds the number of memoized filter results. Zero disables
// memoization.
func WithMemoSize(n int) IndexOption {
	return func(idx *Index) {
		idx.memo = newMemo(n)
	}
}

// NewIndex snapshots products. Slugs must be present and unique.
func NewIndex(products []models.Product, evaluator Evaluator, opts ...IndexOption) (*Index, error) {
	idx := &Index{
		version:   versions.Add(1),
		products:  make([]models.Product, len(products)),
		bySlug:    make(map[string]int, len(products)),
		evaluator: evaluator,
		memo:      newMemo(defaultMemoSize),
	}
	for _, opt := range opts {
		opt(idx)
	}
	copy(idx.products, products)

	brands := map[string]struct{}{}
	categories := map[string]struct{}{}
	for i := range idx.products {
		p := &idx.products[i]
		if p.Slug == "" {
			return nil, fmt.Errorf("%w at position %d (%q)", ErrMissingSlug, i, p.Nome)
		}
		if _, dup := idx.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, p.Slug)
		}
		idx.bySlug[p.Slug] = i
		if b := p.Brand(); b != "" {
			brands[b] = struct{}{}
		}
		if p.Categoria != "" {
			categories[p.Categoria] = struct{}{}
		}
	}
	idx.brands = sortedKeys(brands)
	idx.categories = sortedKeys(categories)
	return idx, nil
}

// EmptyIndex is the index served before the first successful load.
func EmptyIndex(evaluator Evaluator) *Index {
	idx, _ := NewIndex(nil, evaluator)
	return idx
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Version identifies the snapshot; a reload always yields a larger one.
func (idx *Index) Version() uint64 {
	return idx.version
}

func (idx *Index) Len() int {
	return len(idx.products)
}

func (idx *Index) Brands() []string {
	return append(make([]string, 0, len(idx.brands)), idx.brands...)
}

func (idx *Index) Categories() []string {
	return append(make([]string, 0, len(idx.categories)), idx.categories...)
}

// Products returns the whole catalog in load order.
func (idx *Index) Products() []models.Product {
	return append([]models.Product(nil), idx.products...)
}

func (idx *Index) Lookup(slug string) (models.Product, bool) {
	i, ok := idx.bySlug[slug]
	if !ok {
		return models.Product{}, false
	}
	return idx.products[i], true
}

// Check evaluates one product of the snapshot.
func (idx *Index) Check(slug string, s FilterState) (Verdict, bool) {
	i, ok := idx.bySlug[slug]
	if !ok {
		return Verdict{}, false
	}
	return idx.evaluator.Check(&idx.products[i], s), true
}

// Filtered returns the products passing s in catalog order. The returned
// slice is owned by the caller.
func (idx *Index) Filtered(s FilterState) []models.Product {
	key := s.fingerprint()
	positions, ok := idx.memo.get(key)
	if !ok {
		c := idx.evaluator.compile(s)
		positions = make([]int, 0, len(idx.products))
		for i := range idx.products {
			if c.check(&idx.products[i]).Passed {
				positions = append(positions, i)
			}
		}
		idx.memo.put(key, positions)
	}

	out := make([]models.Product, len(positions))
	for n, i := range positions {
		out[n] = idx.products[i]
	}
	return out
}

// MemoStats reports memoization hits, misses and current entries.
func (idx *Index) MemoStats() (hits, misses uint64, entries int) {
	return idx.memo.stats()
}
