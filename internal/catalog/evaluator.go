// internal/catalog/evaluator.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/aplv/catalogo-api/internal/models"
)

// GatePolicy decides when products without any declared allergen or
// ingredient text are rejected.
type GatePolicy string

const (
	// GateNone never rejects undeclared products on that ground alone.
	GateNone GatePolicy = "none"
	// GateNarrow rejects them while any base toggle is on.
	GateNarrow GatePolicy = "narrow"
	// GateBroad rejects them while any toggle, base or traces, is on.
	GateBroad GatePolicy = "broad"
)

// ParseGatePolicy accepts the policy names; the empty string means broad.
func ParseGatePolicy(s string) (GatePolicy, error) {
	switch GatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", GateBroad:
		return GateBroad, nil
	case GateNarrow:
		return GateNarrow, nil
	case GateNone:
		return GateNone, nil
	}
	return "", fmt.Errorf("unknown unknown-product gate policy %q", s)
}

// Clause names reported in a Verdict.
const (
	ClauseUnknown   = "unknown"
	ClauseSearch    = "search"
	ClauseEmpresa   = "empresa"
	ClauseCategoria = "categoria"
	clauseBase      = "base:"
	clauseTraces    = "traces:"
)

// Verdict is the outcome of evaluating one product. Clause names the first
// clause that rejected it and is empty when the product passed.
type Verdict struct {
	Passed bool   `json:"passed"`
	Clause string `json:"clause,omitempty"`
}

func pass() Verdict {
	return Verdict{Passed: true}
}

func reject(clause string) Verdict {
	return Verdict{Clause: clause}
}

// Evaluator decides pass or reject for a product under a filter state.
type Evaluator struct {
	Gate       GatePolicy
	Categories bool
}

// compiled is a filter state prepared for evaluating many products.
type compiled struct {
	gate      bool
	search    string
	empresa   string
	categoria string
	base      []AttributeClass
	traces    []AttributeClass
}

func (e Evaluator) compile(s FilterState) compiled {
	c := compiled{
		search:  strings.ToLower(s.Search),
		empresa: s.Empresa,
	}
	if e.Categories {
		c.categoria = s.Categoria
	}
	for _, class := range classes {
		if s.Enabled(class.BaseFilterKey) {
			c.base = append(c.base, class)
		}
		if class.HasTraces() && s.Enabled(class.TracesFilterKey) {
			c.traces = append(c.traces, class)
		}
	}

	switch e.Gate {
	case GateNone:
	case GateNarrow:
		c.gate = len(c.base) > 0
	default:
		c.gate = len(c.base) > 0 || len(c.traces) > 0
	}
	return c
}

func (c compiled) check(p *models.Product) Verdict {
	if c.gate && p.IsUnknown() {
		return reject(ClauseUnknown)
	}
	if c.search != "" && !strings.Contains(strings.ToLower(p.Nome), c.search) {
		return reject(ClauseSearch)
	}
	if c.empresa != "" && p.Brand() != c.empresa {
		return reject(ClauseEmpresa)
	}
	if c.categoria != "" && p.Categoria != c.categoria {
		return reject(ClauseCategoria)
	}
	for _, class := range c.base {
		if p.Attr(class.HasKey) != models.FreeOf {
			return reject(clauseBase + class.BaseFilterKey)
		}
	}
	for _, class := range c.traces {
		if p.Attr(class.MayKey) != models.FreeOf {
			return reject(clauseTraces + class.TracesFilterKey)
		}
	}
	return pass()
}

// Check evaluates the clauses in order and stops at the first rejection.
func (e Evaluator) Check(p *models.Product, s FilterState) Verdict {
	return e.compile(s).check(p)
}

func (e Evaluator) Passes(p *models.Product, s FilterState) bool {
	return e.Check(p, s).Passed
}

// Filter returns the products that pass, in input order.
func (e Evaluator) Filter(products []models.Product, s FilterState) []models.Product {
	c := e.compile(s)
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if c.check(&products[i]).Passed {
			out = append(out, products[i])
		}
	}
	return out
}
